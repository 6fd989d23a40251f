package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vvka-141/recls/internal/ftp"
	"github.com/vvka-141/recls/pkg/recls"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ErrUnknownProfile is returned when a named FTP profile is not configured.
var ErrUnknownProfile = errors.New("unknown ftp profile")

// FindConfig holds defaults for the find command.
type FindConfig struct {
	Pattern string   `yaml:"pattern,omitempty"`
	Flags   []string `yaml:"flags,omitempty"`
	Format  string   `yaml:"format,omitempty"`
}

// FtpProfile describes a server that can be searched by name.
type FtpProfile struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Passive  bool   `yaml:"passive,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
	Retries  int    `yaml:"retries,omitempty"`
}

type ProjectConfig struct {
	Find FindConfig            `yaml:"find"`
	Ftp  map[string]FtpProfile `yaml:"ftp"`
}

const (
	ConfigFileName = "recls.yaml"

	// PasswordEnvVar supplies the FTP password for every profile.
	PasswordEnvVar = "RECLS_FTP_PASSWORD"
)

// Load reads recls.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads and validates a config file.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Validate reports every problem in the file at once.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if _, err := recls.ParseFlags(c.Find.Flags); err != nil {
		errs = append(errs, fmt.Errorf("find.flags: %w", err))
	}
	switch c.Find.Format {
	case "", "text", "long", "yaml":
	default:
		errs = append(errs, fmt.Errorf("find.format: unknown format %q", c.Find.Format))
	}
	for name, p := range c.Ftp {
		if strings.TrimSpace(p.Host) == "" {
			errs = append(errs, fmt.Errorf("ftp.%s.host: required", name))
		}
		if p.Port < 0 || p.Port > 65535 {
			errs = append(errs, fmt.Errorf("ftp.%s.port: %d out of range", name, p.Port))
		}
		if p.Timeout != "" {
			if _, err := time.ParseDuration(p.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("ftp.%s.timeout: %w", name, err))
			}
		}
		if p.Retries < 0 {
			errs = append(errs, fmt.Errorf("ftp.%s.retries: must not be negative", name))
		}
	}
	return errors.Join(errs...)
}

// DefaultFlags returns the find flags named in the file.
func (c *ProjectConfig) DefaultFlags() (recls.Flags, error) {
	return recls.ParseFlags(c.Find.Flags)
}

// Profile looks up a named FTP profile.
func (c *ProjectConfig) Profile(name string) (FtpProfile, error) {
	p, ok := c.Ftp[name]
	if !ok {
		return FtpProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Settings converts the profile into connection settings. The password
// comes from RECLS_FTP_PASSWORD when set.
func (p FtpProfile) Settings() (ftp.Settings, error) {
	s := ftp.Settings{
		Host:        p.Host,
		Port:        p.Port,
		Username:    p.Username,
		Password:    os.Getenv(PasswordEnvVar),
		Retries:     p.Retries,
		DisableEPSV: p.Passive,
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return ftp.Settings{}, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
		}
		s.Timeout = d
	}
	return s, nil
}

// LoadEnv loads .env style files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
