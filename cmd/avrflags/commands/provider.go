package commands

import (
	"github.com/teranos/avrflags/am"
	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/flags"
	"github.com/teranos/avrflags/logger"
)

// loadProvider loads and validates configuration, then builds the provider.
// Every command that prints flags goes through here first, so a bad board
// fails before anything is computed.
func loadProvider(opts ...flags.Option) (*am.Config, *flags.Provider, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load config")
	}

	p, err := cfg.NewProvider(opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}

	logger.Infow("Flag provider ready",
		"variant", cfg.Board.Variant,
		"cpu", cfg.Board.CPU,
		"clock_mhz", cfg.Board.ClockMHz,
		"config_files", am.LoadedFiles())
	return cfg, p, nil
}

// providerOptions lets tests substitute the directory lister
var providerOptions []flags.Option
