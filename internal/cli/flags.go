package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/recls/pkg/recls"
)

type flagSpec struct {
	name  string
	short string
	flag  recls.Flags
	usage string
}

var (
	flagRecursive    = flagSpec{"recursive", "r", recls.Recursive, "Descend into subdirectories"}
	flagFiles        = flagSpec{"files", "f", recls.Files, "Report regular files"}
	flagDirectories  = flagSpec{"dirs", "d", recls.Directories, "Report directories"}
	flagLinks        = flagSpec{"links", "", recls.Links, "Report symbolic links as links instead of following them"}
	flagDevices      = flagSpec{"devices", "", recls.Devices, "Report devices, pipes and sockets"}
	flagMarkDirs     = flagSpec{"mark-dirs", "", recls.MarkDirs, "Append a separator to directory paths"}
	flagHidden       = flagSpec{"ignore-hidden", "", recls.IgnoreHiddenEntries, "Skip entries whose names start with '.'"}
	flagNoFollow     = flagSpec{"no-follow", "", recls.NoFollowLinks, "Never follow symbolic links"}
	flagReparse      = flagSpec{"follow-dir-links", "", recls.AllowReparseDirs, "Descend into symbolically linked directories"}
	flagStopOnDenied = flagSpec{"stop-on-denied", "", recls.StopOnAccessFailure, "Fail when a subdirectory cannot be read"}
	flagDetailsLater = flagSpec{"details-later", "", recls.DetailsLater, "Report absent stat targets as placeholders"}
	flagPassive      = flagSpec{"passive", "", recls.PassiveFtp, "Use plain PASV data connections (no EPSV)"}
)

// searchFlags binds boolean search flags and the generic --flag list to a
// command, and resolves them on top of configured defaults.
type searchFlags struct {
	specs  []flagSpec
	values []bool
	extra  []string
	format string
}

func bindSearchFlags(cmd *cobra.Command, specs ...flagSpec) *searchFlags {
	sf := &searchFlags{specs: specs, values: make([]bool, len(specs))}
	for i, spec := range specs {
		cmd.Flags().BoolVarP(&sf.values[i], spec.name, spec.short, false, spec.usage)
	}
	cmd.Flags().StringSliceVar(&sf.extra, "flag", nil, "Additional flags by name (e.g. node-index,link-count)")
	cmd.Flags().StringVarP(&sf.format, "format", "o", "text", "Output format: text, long or yaml")
	return sf
}

// resolve applies explicitly set flags over base. A flag given as
// --name=false clears a bit the configuration set.
func (sf *searchFlags) resolve(cmd *cobra.Command, base recls.Flags) (recls.Flags, error) {
	f := base
	for i, spec := range sf.specs {
		if !cmd.Flags().Changed(spec.name) {
			continue
		}
		if sf.values[i] {
			f |= spec.flag
		} else {
			f &^= spec.flag
		}
	}
	extra, err := recls.ParseFlags(sf.extra)
	if err != nil {
		return 0, fmt.Errorf("invalid argument for --flag: %v", err)
	}
	return f | extra, nil
}

// outputFormat returns --format unless only the configuration set one.
func (sf *searchFlags) outputFormat(cmd *cobra.Command, configured string) string {
	if !cmd.Flags().Changed("format") && configured != "" {
		return configured
	}
	return sf.format
}
