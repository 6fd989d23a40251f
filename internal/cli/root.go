package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/recls/internal/config"
	"github.com/vvka-141/recls/internal/logging"
	"github.com/vvka-141/recls/internal/search"
	"github.com/vvka-141/recls/pkg/recls"
)

const rootLong = `recls finds files and directories by name, recursively, on local disks
and FTP servers.

Patterns are '|'-separated lists of glob tokens matched against entry names,
for example "*.go|*.mod". Search roots may start with ~ for the home directory.

Configuration:
  recls.yaml in the working directory (or --config) supplies default find
  flags and named FTP profiles. RECLS_FTP_PASSWORD, optionally from a .env
  file, supplies FTP passwords.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - FTP connection failed
  12 - Nothing matched
  13 - Search root or pattern rejected
  14 - Path missing or of the wrong type
  15 - Access denied
  16 - Search cancelled`

// engineFactory builds the engine behind every command. Tests replace it.
var engineFactory = func(logger recls.Logger) *search.Engine {
	return search.New(search.WithLogger(logger))
}

// NewRootCommand assembles the recls command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "recls",
		Short:         "Recursive file search",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	cmd.PersistentFlags().String("config", "", "Path to recls.yaml (default: ./recls.yaml)")

	cmd.AddCommand(
		newFindCmd(),
		newStatCmd(),
		newFtpCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		logging.NewConsoleLogger(false).Error("%v", err)
	}
	return err
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func newLogger(cmd *cobra.Command) recls.Logger {
	return logging.NewConsoleLogger(getVerboseFlag(cmd), logging.WithOutput(cmd.ErrOrStderr()))
}

// loadProjectConfig loads .env files and recls.yaml. A missing default
// config file yields an empty configuration; a missing --config file is
// an error.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("%w: %v", recls.ErrInvalidConfig, err)
	}

	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.ConfigFileName
	}

	cfg, err := config.LoadFile(path)
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		return &config.ProjectConfig{}, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %v", recls.ErrInvalidConfig, err)
	}
	return cfg, nil
}
