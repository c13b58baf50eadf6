package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/avrflags/am"
	"github.com/teranos/avrflags/cmd/avrflags/commands"
	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/logger"
)

var rootCmd = &cobra.Command{
	Use:   "avrflags",
	Short: "avrflags - compiler flags for editing Arduino/AVR sources",
	Long: `avrflags - compiler flags for editing Arduino/AVR sources.

Produces the flag list a completion engine (clangd, YouCompleteMe, ccls)
needs to parse a sketch for an AVR microcontroller: warning and dialect
flags, Arduino core and avr-gcc include paths, -mmcu/F_CPU for the
configured board, and one -I per installed library.

Available commands:
  flags   - Print flags for a file
  write   - Write compile_flags.txt for clangd
  watch   - Keep compile_flags.txt up to date
  serve   - Answer flag requests over stdin/stdout
  am      - Inspect configuration ("I am")
  version - Show version information

Examples:
  avrflags flags src/main.cpp          # JSON {"flags": [...]}
  avrflags flags -f shell              # one line for avr-g++
  avrflags write                       # ./compile_flags.txt
  avrflags am show                     # effective configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}

		if path, _ := cmd.Flags().GetString("config"); path != "" {
			am.SetConfigFile(path)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON on stderr")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file merged above all others")

	rootCmd.AddCommand(commands.FlagsCmd)
	rootCmd.AddCommand(commands.WriteCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		logger.Cleanup()
		os.Exit(1)
	}
}
