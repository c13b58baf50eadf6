package am

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/avrflags/flags"
	"github.com/teranos/avrflags/logger"
)

// FlagBoard converts the board section
func (c *Config) FlagBoard() flags.Board {
	return flags.Board{
		Variant:  c.Board.Variant,
		CPU:      c.Board.CPU,
		ClockMHz: c.Board.ClockMHz,
	}
}

// FlagToolchain converts the toolchain section
func (c *Config) FlagToolchain() flags.Toolchain {
	return flags.Toolchain{
		ArduinoRoot:    c.Toolchain.ArduinoRoot,
		GCCRoot:        c.Toolchain.GCCRoot,
		GCCVersion:     c.Toolchain.GCCVersion,
		SystemIncludes: append([]string(nil), c.Toolchain.SystemIncludes...),
	}
}

// SearchRoots returns the library search roots with ${arduino_root} and a
// leading ~/ expanded
func (c *Config) SearchRoots() []string {
	home, _ := os.UserHomeDir()
	roots := make([]string, 0, len(c.Libraries.SearchRoots))
	for _, root := range c.Libraries.SearchRoots {
		roots = append(roots, expandRoot(root, c.Toolchain.ArduinoRoot, home))
	}
	return roots
}

func expandRoot(root, arduinoRoot, home string) string {
	root = strings.ReplaceAll(root, ArduinoRootVar, arduinoRoot)
	if home != "" && (root == "~" || strings.HasPrefix(root, "~/")) {
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}
	return root
}

// NewProvider validates the configuration and builds a flag provider from it.
// This is the load-time precondition check: a config that fails here never
// produces flags.
func (c *Config) NewProvider(opts ...flags.Option) (*flags.Provider, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	base := []flags.Option{
		flags.WithToolchain(c.FlagToolchain()),
		flags.WithSearchRoots(c.SearchRoots()),
		flags.WithLogger(logger.Named("flags")),
	}
	return flags.New(c.FlagBoard(), append(base, opts...)...)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Board: {%s, %s, %d MHz}, Toolchain: {gcc %s}, SearchRoots: %d}",
		c.Board.Variant, c.Board.CPU, c.Board.ClockMHz, c.Toolchain.GCCVersion, len(c.Libraries.SearchRoots))
}
