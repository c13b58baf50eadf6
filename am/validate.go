package am

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/avrflags/emit"
	"github.com/teranos/avrflags/errors"
)

// Validate checks that the configuration can produce a flag list.
// Every failure is marked errors.ErrConfig.
func (c *Config) Validate() error {
	if err := c.FlagBoard().Validate(); err != nil {
		return err
	}

	if !filepath.IsAbs(c.Toolchain.ArduinoRoot) {
		return errors.NewConfigError("toolchain.arduino_root must be an absolute path, got %q", c.Toolchain.ArduinoRoot)
	}
	if !filepath.IsAbs(c.Toolchain.GCCRoot) {
		return errors.NewConfigError("toolchain.gcc_root must be an absolute path, got %q", c.Toolchain.GCCRoot)
	}

	if _, err := semver.NewVersion(c.Toolchain.GCCVersion); err != nil {
		return errors.WithHint(
			errors.NewConfigError("toolchain.gcc_version %q is not a version: %v", c.Toolchain.GCCVersion, err),
			"use the directory name under toolchain.gcc_root, e.g. 8.2.0")
	}

	for _, root := range c.Libraries.SearchRoots {
		if strings.TrimSpace(root) == "" {
			return errors.NewConfigError("libraries.search_roots contains an empty pattern")
		}
	}

	if !slices.Contains(emit.Formats, c.Output.Format) {
		return errors.WithHintf(
			errors.NewConfigError("output.format %q is not supported", c.Output.Format),
			"supported: %s", strings.Join(emit.Formats, ", "))
	}

	return nil
}
