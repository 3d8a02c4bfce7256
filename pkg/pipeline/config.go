package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
)

// ConfigPath returns the default config file location,
// $XDG_CONFIG_HOME/bubbleset/config.toml or ~/.config/bubbleset/config.toml.
func ConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bubbleset", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bubbleset", "config.toml")
}

// LoadConfig decodes a TOML config file into Options.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, k := range undecoded {
			if len(k) > 0 && k[0] == "strategy_options" {
				continue
			}
			keys = append(keys, k.String())
		}
		if len(keys) > 0 {
			slices.Sort(keys)
			return Options{}, bserrors.New(bserrors.ErrCodeInvalidConfig,
				"unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	for i, f := range opts.Formats {
		opts.Formats[i] = strings.ToLower(f)
	}
	return opts, nil
}

// LoadDefaultConfig reads the config at [ConfigPath] if it exists.
// A missing file yields zero Options.
func LoadDefaultConfig() (Options, error) {
	path := ConfigPath()
	if path == "" {
		return Options{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Options{}, nil
	}
	return LoadConfig(path)
}
