package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/logger"
)

// ConfigSource represents where a configuration layer came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/avrflags/am.toml
	SourceUser        ConfigSource = "user"        // ~/.avrflags/am.toml
	SourceProject     ConfigSource = "project"     // avrflags.toml, searched upward
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // AVRFLAGS_* env vars
)

// SourceInfo records one candidate config file and whether it was merged
type SourceInfo struct {
	Source ConfigSource `json:"source"`
	Path   string       `json:"path"`
	Loaded bool         `json:"loaded"`
}

// ProjectConfigName is the file looked for in the working directory and its parents
const ProjectConfigName = "avrflags.toml"

var (
	globalConfig  *Config
	viperInstance *viper.Viper
	loadedSources []SourceInfo

	// SystemConfigPath is the lowest-precedence config file
	SystemConfigPath = "/etc/avrflags/am.toml"

	explicitConfigPath string
)

// SetConfigFile makes path the highest-precedence config file and drops any
// cached configuration
func SetConfigFile(path string) {
	explicitConfigPath = path
	Reset()
}

// Load reads the avrflags configuration using Viper. The result is cached
// until Reset.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to unmarshal config"), errors.ErrConfig)
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults, ignoring the cascade and the environment
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if err := mergeFile(v, configPath); err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// Sources returns the config files considered during the last load
func Sources() []SourceInfo {
	return append([]SourceInfo(nil), loadedSources...)
}

// LoadedFiles returns the paths of config files that were merged
func LoadedFiles() []string {
	var files []string
	for _, s := range loadedSources {
		if s.Loaded {
			files = append(files, s.Path)
		}
	}
	return files
}

// Reset clears the cached configuration (useful for testing and reloads)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	loadedSources = nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()
	v.SetConfigType("toml")

	v.SetEnvPrefix("AVRFLAGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true) // An empty AVRFLAGS_BOARD_CPU clears the cpu
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// candidateSources lists config files in precedence order (lowest first)
func candidateSources() []SourceInfo {
	sources := []SourceInfo{{Source: SourceSystem, Path: SystemConfigPath}}

	if homeDir, err := os.UserHomeDir(); err == nil {
		sources = append(sources, SourceInfo{
			Source: SourceUser,
			Path:   filepath.Join(homeDir, ".avrflags", "am.toml"),
		})
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		sources = append(sources, SourceInfo{Source: SourceProject, Path: projectConfig})
	}

	if explicitConfigPath != "" {
		sources = append(sources, SourceInfo{Source: SourceExplicit, Path: explicitConfigPath})
	}
	return sources
}

// mergeConfigFiles merges configuration files in precedence order.
// Missing files are skipped, except an explicit --config file which must exist.
func mergeConfigFiles(v *viper.Viper) error {
	sources := candidateSources()

	for i, src := range sources {
		if _, err := os.Stat(src.Path); err != nil {
			if src.Source == SourceExplicit {
				return errors.WithHint(
					errors.Mark(errors.Wrapf(err, "config file %s", src.Path), errors.ErrConfig),
					"check the --config path")
			}
			continue
		}

		if err := mergeFile(v, src.Path); err != nil {
			return err
		}
		sources[i].Loaded = true
		logger.Debugw("Merged config file", "source", src.Source, "path", src.Path)
	}

	loadedSources = sources
	return nil
}

// mergeFile deep-merges one TOML file into v and reports keys the schema
// does not know about
func mergeFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.MergeInConfig(); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to read config file %s", path), errors.ErrConfig)
	}

	unknown, err := UnknownKeys(path)
	if err != nil {
		return err
	}
	for _, key := range unknown {
		logger.Warnw("Unknown configuration key ignored", "key", key, "path", path)
	}
	return nil
}

// findProjectConfig searches for avrflags.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Get returns a configuration value using dot notation
func Get(key string) (interface{}, error) {
	v, err := initViper()
	if err != nil {
		return nil, err
	}
	if !v.IsSet(key) {
		return nil, errors.NewConfigError("configuration key %q not found", key)
	}
	return v.Get(key), nil
}
