// Package am loads avrflags configuration ("I am" this board, with this
// toolchain) from defaults, TOML files and AVRFLAGS_* environment variables.
package am

// Config represents the avrflags configuration
type Config struct {
	Board     BoardConfig     `mapstructure:"board" toml:"board" json:"board" yaml:"board"`
	Toolchain ToolchainConfig `mapstructure:"toolchain" toml:"toolchain" json:"toolchain" yaml:"toolchain"`
	Libraries LibrariesConfig `mapstructure:"libraries" toml:"libraries" json:"libraries" yaml:"libraries"`
	Output    OutputConfig    `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
}

// BoardConfig identifies the target microcontroller. All three values are required.
type BoardConfig struct {
	Variant  string `mapstructure:"variant" toml:"variant" json:"variant" yaml:"variant"`         // pin layout, e.g. "eightanaloginputs"
	CPU      string `mapstructure:"cpu" toml:"cpu" json:"cpu" yaml:"cpu"`                         // part number, e.g. "ATmega328P"
	ClockMHz int    `mapstructure:"clock_mhz" toml:"clock_mhz" json:"clock_mhz" yaml:"clock_mhz"` // whole megahertz, e.g. 16
}

// ToolchainConfig locates the Arduino core and avr-gcc headers
type ToolchainConfig struct {
	ArduinoRoot    string   `mapstructure:"arduino_root" toml:"arduino_root" json:"arduino_root" yaml:"arduino_root"`
	GCCRoot        string   `mapstructure:"gcc_root" toml:"gcc_root" json:"gcc_root" yaml:"gcc_root"`
	GCCVersion     string   `mapstructure:"gcc_version" toml:"gcc_version" json:"gcc_version" yaml:"gcc_version"`
	SystemIncludes []string `mapstructure:"system_includes" toml:"system_includes" json:"system_includes" yaml:"system_includes"`
}

// LibrariesConfig configures library header discovery
type LibrariesConfig struct {
	// Glob patterns expanded on every request. "${arduino_root}" is replaced
	// with toolchain.arduino_root and a leading "~/" with the home directory.
	SearchRoots []string `mapstructure:"search_roots" toml:"search_roots" json:"search_roots" yaml:"search_roots"`
}

// OutputConfig configures how results are rendered and written
type OutputConfig struct {
	Format           string `mapstructure:"format" toml:"format" json:"format" yaml:"format"`                                                 // json, yaml, lines, shell
	CompileFlagsPath string `mapstructure:"compile_flags_path" toml:"compile_flags_path" json:"compile_flags_path" yaml:"compile_flags_path"` // target of `avrflags write`
}

// ArduinoRootVar is substituted into search roots
const ArduinoRootVar = "${arduino_root}"

// File system constants
const (
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
