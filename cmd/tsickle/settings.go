package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Settings are the optional tsickle.toml values.
type Settings struct {
	// ModulePrefix is prepended to every generated module name.
	ModulePrefix string `toml:"module_prefix"`
}

// LoadSettings reads path, or tsickle.toml in the working directory when
// path is empty. A missing file yields zero settings.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = "tsickle.toml"
		if _, err := os.Stat(path); err != nil {
			return &Settings{}, nil
		}
	}
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
