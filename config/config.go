// Package config defines the emitter options (using toml): the page width
// and the fixed module header the generated F* files carry.
package config

import (
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Options configures the program emitter.
type Options struct {
	// Width is the page width documents are rendered at.
	Width int `toml:"width"`
	// SetOptions is the verification-engine tuning string placed in the
	// #set-options pragma.
	SetOptions string `toml:"set_options"`
	// Opens lists the namespaces every generated module opens.
	Opens []string `toml:"opens"`
}

// Default returns the standard emitter options.
func Default() Options {
	return Options{
		Width:      80,
		SetOptions: "--fuel 0 --ifuel 1 --z3rlimit 15",
		Opens:      []string{"Hacspec.Lib", "FStar.Mul"},
	}
}

// Load reads options from a toml file, falling back to the defaults for any
// field the file leaves unset. A missing file is treated as empty.
func Load(path string) (Options, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		contents = []byte{}
	} else if err != nil {
		return Options{}, errors.Errorf("config file %s could not be read", path)
	}
	return Parse(contents)
}

// Parse decodes options from toml contents, applying defaults to unset
// fields.
func Parse(contents []byte) (Options, error) {
	var opts Options
	if err := toml.Unmarshal(contents, &opts); err != nil {
		return Options{}, errors.Wrap(err, "could not parse emitter config")
	}
	defaults := Default()
	if opts.Width == 0 {
		opts.Width = defaults.Width
	}
	if opts.SetOptions == "" {
		opts.SetOptions = defaults.SetOptions
	}
	if opts.Opens == nil {
		opts.Opens = defaults.Opens
	}
	return opts, nil
}
