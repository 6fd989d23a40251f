package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Describe a single file or directory",
		Long: `Describe a single file or directory without searching.

--files or --dirs restrict the accepted type. With --details-later an absent
entry whose parent directory exists is reported as a placeholder.`,
		Args: cobra.ExactArgs(1),
	}
	sf := bindSearchFlags(cmd, flagFiles, flagDirectories, flagDetailsLater, flagNoFollow, flagMarkDirs)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runStat(cmd, sf, args[0])
	}
	return cmd
}

func runStat(cmd *cobra.Command, sf *searchFlags, path string) error {
	cfg, err := loadProjectConfig(cmd)
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

	entry, err := engineFactory(newLogger(cmd)).Stat(path, flags)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	defer entry.Close()

	if err := out.Write(entry); err != nil {
		return err
	}
	return out.Flush()
}
