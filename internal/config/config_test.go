package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/recls/pkg/recls"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeConfig(t, `find:
  pattern: "*.go|*.mod"
  flags: [recursive, directories, mark-dirs]
  format: long

ftp:
  mirror:
    host: ftp.example.com
    port: 2121
    username: reader
    passive: true
    timeout: 45s
    retries: 5
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "*.go|*.mod", cfg.Find.Pattern)
	assert.Equal(t, "long", cfg.Find.Format)
	flags, err := cfg.DefaultFlags()
	require.NoError(t, err)
	assert.Equal(t, recls.Recursive|recls.Directories|recls.MarkDirs, flags)

	p, err := cfg.Profile("mirror")
	require.NoError(t, err)
	assert.Equal(t, "ftp.example.com", p.Host)
	assert.Equal(t, 2121, p.Port)
	assert.Equal(t, "reader", p.Username)
	assert.True(t, p.Passive)
	assert.Equal(t, 5, p.Retries)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := writeConfig(t, `find:
  pattern: "*.txt"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	flags, err := cfg.DefaultFlags()
	require.NoError(t, err)
	assert.Zero(t, flags)
	assert.Empty(t, cfg.Ftp)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, "{{invalid")

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	dir := writeConfig(t, `find:
  flags: [recursive, sideways]
  format: xml
ftp:
  broken:
    port: 99999
    timeout: soon
`)

	_, err := Load(dir)
	require.Error(t, err)
	for _, want := range []string{"find.flags", "find.format", "ftp.broken.host", "ftp.broken.port", "ftp.broken.timeout"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestProfile_Unknown(t *testing.T) {
	cfg := &ProjectConfig{}
	_, err := cfg.Profile("nope")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestFtpProfile_Settings(t *testing.T) {
	t.Setenv(PasswordEnvVar, "s3cret")

	s, err := FtpProfile{Host: "ftp.example.com", Username: "reader", Passive: true, Timeout: "45s", Retries: 2}.Settings()
	require.NoError(t, err)

	assert.Equal(t, "ftp.example.com", s.Host)
	assert.Equal(t, "reader", s.Username)
	assert.Equal(t, "s3cret", s.Password)
	assert.Equal(t, 45*time.Second, s.Timeout)
	assert.Equal(t, 2, s.Retries)
	assert.True(t, s.DisableEPSV)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(PasswordEnvVar+"=from-file\n"), 0644))

	t.Setenv(PasswordEnvVar, "")
	require.NoError(t, os.Unsetenv(PasswordEnvVar))

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "from-file", os.Getenv(PasswordEnvVar))
}

func TestLoadEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(PasswordEnvVar+"=from-file\n"), 0644))

	t.Setenv(PasswordEnvVar, "from-shell")
	require.NoError(t, LoadEnv(envFile))
	assert.Equal(t, "from-shell", os.Getenv(PasswordEnvVar))
}
