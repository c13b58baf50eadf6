package am

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/avrflags/errors"
)

// UnknownKeys decodes a TOML config file strictly against the Config schema
// and returns the dotted keys it could not place, sorted. Viper accepts such
// keys silently, so a typo like "clockmhz" would otherwise keep the default.
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to parse %s", path), errors.ErrConfig)
	}

	var keys []string
	for _, key := range md.Undecoded() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys, nil
}
