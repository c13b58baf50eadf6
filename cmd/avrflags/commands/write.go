package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/avrflags/emit"
	"github.com/teranos/avrflags/errors"
)

// WriteCmd writes compile_flags.txt
var WriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write compile_flags.txt for clangd",
	Long: `Write the flag list, one flag per line, to compile_flags.txt (or the path
in output.compile_flags_path / --output). The file is replaced atomically.`,
	Args: cobra.NoArgs,
	RunE: runWrite,
}

var writeOutput string

func init() {
	WriteCmd.Flags().StringVarP(&writeOutput, "output", "o", "", "Target file (default: output.compile_flags_path)")
}

func runWrite(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadProvider(providerOptions...)
	if err != nil {
		return err
	}

	path := writeOutput
	if path == "" {
		path = cfg.Output.CompileFlagsPath
	}

	res := p.FlagsForFile(path)
	if err := emit.WriteCompileFlags(path, res); err != nil {
		return errors.Wrap(err, "failed to write compile flags")
	}

	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %d flags to %s", len(res.Flags), path)
	return nil
}
