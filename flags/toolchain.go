package flags

import "path/filepath"

// Toolchain describes where the Arduino core and avr-gcc headers live.
// These paths are baked into the flag list as-is; nothing checks they exist.
type Toolchain struct {
	ArduinoRoot    string   // e.g. /usr/share/arduino/hardware/archlinux-arduino/avr
	GCCRoot        string   // e.g. /usr/lib/gcc/avr
	GCCVersion     string   // e.g. 8.2.0
	SystemIncludes []string // trailing -isystem directories, in order
}

// Default toolchain locations (Arch Linux arduino-avr-core + avr-gcc 8.2.0)
const (
	DefaultArduinoRoot = "/usr/share/arduino/hardware/archlinux-arduino/avr"
	DefaultGCCRoot     = "/usr/lib/gcc/avr"
	DefaultGCCVersion  = "8.2.0"
)

// DefaultSystemIncludes are appended after the gcc include directories.
var DefaultSystemIncludes = []string{
	"/usr/avr/include",
	"/usr/local/include",
	"/usr/include",
}

// DefaultToolchain returns the stock toolchain layout.
func DefaultToolchain() Toolchain {
	return Toolchain{
		ArduinoRoot:    DefaultArduinoRoot,
		GCCRoot:        DefaultGCCRoot,
		GCCVersion:     DefaultGCCVersion,
		SystemIncludes: append([]string(nil), DefaultSystemIncludes...),
	}
}

// DefaultSearchRoots returns the library search roots for a toolchain:
// bundled Arduino libraries, the user's sketchbook libraries and the
// current directory.
func DefaultSearchRoots(tc Toolchain) []string {
	return []string{
		filepath.Join(tc.ArduinoRoot, "libraries", "*", "src"),
		"~/Arduino/libraries/*/src",
		".",
	}
}

func (tc Toolchain) coreHeader() string {
	return tc.ArduinoRoot + "/cores/arduino/Arduino.h"
}

func (tc Toolchain) variantDir(variant string) string {
	return tc.ArduinoRoot + "/variants/" + variant
}

func (tc Toolchain) coreDir() string {
	return tc.ArduinoRoot + "/cores/arduino"
}

func (tc Toolchain) gccDir(sub string) string {
	return tc.GCCRoot + "/" + tc.GCCVersion + "/" + sub
}
