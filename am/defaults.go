package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/avrflags/emit"
	"github.com/teranos/avrflags/flags"
)

// Board defaults: Arduino Uno/Nano class hardware
const (
	DefaultVariant  = "eightanaloginputs"
	DefaultCPU      = "ATmega328P"
	DefaultClockMHz = 16
)

// DefaultSearchRoots are expanded against the filesystem on every request
var DefaultSearchRoots = []string{
	ArduinoRootVar + "/libraries/*/src",
	"~/Arduino/libraries/*/src",
	".",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("board.variant", DefaultVariant)
	v.SetDefault("board.cpu", DefaultCPU)
	v.SetDefault("board.clock_mhz", DefaultClockMHz)

	v.SetDefault("toolchain.arduino_root", flags.DefaultArduinoRoot)
	v.SetDefault("toolchain.gcc_root", flags.DefaultGCCRoot)
	v.SetDefault("toolchain.gcc_version", flags.DefaultGCCVersion)
	v.SetDefault("toolchain.system_includes", flags.DefaultSystemIncludes)

	v.SetDefault("libraries.search_roots", DefaultSearchRoots)

	v.SetDefault("output.format", emit.FormatJSON)
	v.SetDefault("output.compile_flags_path", "compile_flags.txt")
}

// BindEnvVars binds the board settings to short environment variable names
// in addition to the AVRFLAGS_BOARD_* names AutomaticEnv already provides
func BindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("board.variant", "AVRFLAGS_BOARD_VARIANT", "AVRFLAGS_VARIANT")
	_ = v.BindEnv("board.cpu", "AVRFLAGS_BOARD_CPU", "AVRFLAGS_CPU")
	_ = v.BindEnv("board.clock_mhz", "AVRFLAGS_BOARD_CLOCK_MHZ", "AVRFLAGS_CLOCK_MHZ")
}
