package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/recls/internal/config"
	"github.com/vvka-141/recls/internal/ftp"
	"github.com/vvka-141/recls/pkg/recls"
)

type ftpFlags struct {
	port     int
	user     string
	timeout  time.Duration
	retries  int
	progress bool
}

func newFtpCmd() *cobra.Command {
	var ff ftpFlags
	cmd := &cobra.Command{
		Use:   "ftp <host|profile> [root] [pattern]",
		Short: "Search a directory tree on an FTP server",
		Long: `Search a directory tree on an FTP server.

The first argument is a host name or the name of an ftp profile in recls.yaml.
An empty root searches the login directory. Logins are anonymous unless a
user is given; the password is read from RECLS_FTP_PASSWORD.`,
		Example: `  recls ftp ftp.example.com /pub "*.tar.gz" -r
  recls ftp mirror /debian/dists "Release" -r --passive`,
		Args: cobra.RangeArgs(1, 3),
	}
	sf := bindSearchFlags(cmd,
		flagRecursive, flagFiles, flagDirectories, flagLinks,
		flagMarkDirs, flagHidden, flagStopOnDenied, flagPassive,
	)
	cmd.Flags().IntVar(&ff.port, "port", 0, "Server port (default 21)")
	cmd.Flags().StringVarP(&ff.user, "user", "u", "", "Login name (default anonymous)")
	cmd.Flags().DurationVar(&ff.timeout, "timeout", recls.DefaultFtpTimeout, "Dial and control connection timeout")
	cmd.Flags().IntVar(&ff.retries, "retries", recls.DefaultFtpRetryAttempts, "Reconnect attempts after transient failures")
	cmd.Flags().BoolVar(&ff.progress, "progress", false, "Show live progress on an interactive terminal")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runFtp(cmd, sf, &ff, args)
	}
	return cmd
}

func runFtp(cmd *cobra.Command, sf *searchFlags, ff *ftpFlags, args []string) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := ftpSettings(cmd, cfg, ff, args[0])
	if err != nil {
		return err
	}
	flags, err := sf.resolve(cmd, 0)
	if err != nil {
		return err
	}
	out, err := newEntryWriter(sf.outputFormat(cmd, cfg.Find.Format), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	root, pattern := targetArgs(args[1:], cfg.Find.Pattern)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	display := startDisplay(cmd, ff.progress)
	h, err := engineFactory(newLogger(cmd)).SearchFtp(ctx, settings, root, pattern, flags, progressFunc(ctx, display))
	if err == nil {
		err = drain(ctx, h, out, display)
	}
	display.Finish(err)
	return describeSearchError(err, "ftp://"+settings.Address()+"/"+root, pattern)
}

// ftpSettings resolves the target as a profile name first, then as a host.
// Explicit flags override profile values.
func ftpSettings(cmd *cobra.Command, cfg *config.ProjectConfig, ff *ftpFlags, target string) (ftp.Settings, error) {
	var s ftp.Settings
	if profile, err := cfg.Profile(target); err == nil {
		s, err = profile.Settings()
		if err != nil {
			return ftp.Settings{}, fmt.Errorf("%w: profile %s: %v", recls.ErrInvalidConfig, target, err)
		}
	} else {
		s = ftp.Settings{Host: target, Password: os.Getenv(config.PasswordEnvVar)}
	}

	if cmd.Flags().Changed("port") || s.Port == 0 {
		s.Port = ff.port
	}
	if cmd.Flags().Changed("user") || s.Username == "" {
		s.Username = ff.user
	}
	if cmd.Flags().Changed("timeout") || s.Timeout == 0 {
		s.Timeout = ff.timeout
	}
	if cmd.Flags().Changed("retries") || s.Retries == 0 {
		s.Retries = ff.retries
	}
	return s, nil
}
