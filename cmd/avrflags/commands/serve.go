package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/host"
	"github.com/teranos/avrflags/logger"
)

// ServeCmd answers flag requests over stdin/stdout
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer flag requests over stdin/stdout",
	Long: `Read one JSON request per line from stdin and write one JSON response per
line to stdout, until stdin closes.

  request:  {"filename": "src/main.cpp"}
  response: {"flags": ["-Wall", ...]}

Configuration is loaded and validated once at startup; library directories
are rediscovered for every request.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	_, p, err := loadProvider(providerOptions...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = host.NewServer(p, logger.Named("host")).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
