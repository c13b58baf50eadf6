package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/avrflags/emit"
)

// FlagsCmd prints the flags for one file
var FlagsCmd = &cobra.Command{
	Use:   "flags [file]",
	Short: "Print compiler flags for a source file",
	Long: `Print the compiler flags for a source file.

The flag list is the same for every file in the project; the file argument
exists for editor hosts that always pass one. Library include directories are
rediscovered on every run.

Formats:
  json   {"flags": [...]}  (default, see output.format)
  yaml   flags: [...]
  lines  one flag per line, like compile_flags.txt
  shell  one shell-quoted line`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFlags,
}

var flagsFormat string

func init() {
	FlagsCmd.Flags().StringVarP(&flagsFormat, "format", "f", "", "Output format: json, yaml, lines, shell (default: output.format)")
}

func runFlags(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadProvider(providerOptions...)
	if err != nil {
		return err
	}

	filename := "."
	if len(args) == 1 {
		filename = args[0]
	}

	format := flagsFormat
	if format == "" {
		format = cfg.Output.Format
	}

	return emit.Render(cmd.OutOrStdout(), p.FlagsForFile(filename), format)
}
