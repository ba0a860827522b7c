package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/vsariola/musical"
	"github.com/vsariola/musical/vm"
)

// Preferences are the render settings of the command line tools.
type Preferences struct {
	SampleRate int `yaml:"samplerate"`
	Bits       int `yaml:"bits"`
	Workers    int `yaml:"workers"`
}

// PreferencesFile is the name of the file looked up in the config directory.
const PreferencesFile = "preferences.yml"

//go:embed preferences.yml
var defaultPreferencesYaml []byte

// DefaultPreferences returns the settings embedded in the binary.
func DefaultPreferences() (Preferences, error) {
	var p Preferences
	if err := yaml.UnmarshalStrict(defaultPreferencesYaml, &p); err != nil {
		return Preferences{}, fmt.Errorf("embedded preferences: %w", err)
	}
	return p, nil
}

// LoadPreferences overrides the defaults with the PreferencesFile in dir.
// Keys missing from the file keep their default values, as does everything
// when the file does not exist.
func LoadPreferences(dir string) (Preferences, error) {
	p, err := DefaultPreferences()
	if err != nil {
		return p, err
	}
	path := filepath.Join(dir, PreferencesFile)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("could not read %v: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(b, &p); err != nil {
		return p, fmt.Errorf("%v: %w", path, err)
	}
	return p, nil
}

// UserPreferences loads the preferences from $UserConfigDir/musical, or
// returns the defaults when the platform has no config directory.
func UserPreferences() (Preferences, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultPreferences()
	}
	return LoadPreferences(filepath.Join(dir, "musical"))
}

// Validate checks the sample rate and the bit depth.
func (p Preferences) Validate() error {
	if p.SampleRate < 1 {
		return fmt.Errorf("invalid sample rate: %v", p.SampleRate)
	}
	if _, err := p.SampleWidth(); err != nil {
		return err
	}
	return nil
}

func (p Preferences) SampleWidth() (musical.SampleWidth, error) {
	return musical.ParseSampleWidth(p.Bits)
}

// Renderer returns vm.Sequential when Workers is 0 and vm.Parallel
// otherwise.
func (p Preferences) Renderer() musical.Renderer {
	if p.Workers == 0 {
		return vm.Sequential{}
	}
	return vm.Parallel{Workers: max(p.Workers, 0)}
}
