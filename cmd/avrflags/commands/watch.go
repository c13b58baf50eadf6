package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/avrflags/am"
	"github.com/teranos/avrflags/emit"
	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/logger"
)

// WatchCmd keeps compile_flags.txt current
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rewrite compile_flags.txt when config or libraries change",
	Long: `Write compile_flags.txt, then watch the loaded config files and the library
search root directories. Any change reloads the configuration and rewrites
the file. A configuration that fails validation is reported and the previous
file is left in place.

Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchOutput string

func init() {
	WatchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Target file (default: output.compile_flags_path)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadProvider(providerOptions...)
	if err != nil {
		return err
	}

	path := watchOutput
	if path == "" {
		path = cfg.Output.CompileFlagsPath
	}

	status := pterm.Info.WithWriter(cmd.OutOrStdout())
	res := p.FlagsForFile(path)
	if err := emit.WriteCompileFlags(path, res); err != nil {
		return errors.Wrap(err, "failed to write compile flags")
	}
	status.Printfln("Wrote %d flags to %s", len(res.Flags), path)

	watcher, err := am.NewWatcher(am.WatchPaths(cfg))
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.IgnoreWrites(path)

	watcher.OnReload(func(newCfg *am.Config) error {
		np, err := newCfg.NewProvider(providerOptions...)
		if err != nil {
			logger.Errorw("Configuration rejected, keeping previous flags", "error", err)
			return err
		}
		res := np.FlagsForFile(path)
		if err := emit.WriteCompileFlags(path, res); err != nil {
			return err
		}
		status.Printfln("Rewrote %d flags to %s", len(res.Flags), path)
		return nil
	})
	watcher.Start()

	status.Printfln("Watching %d paths (Ctrl-C to stop)", len(watcher.Paths()))
	for _, wp := range watcher.Paths() {
		logger.Infow("Watching", "path", wp)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-cmd.Context().Done():
	}
	return nil
}
