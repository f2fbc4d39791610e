package prefabs

import (
	"fmt"

	"github.com/milk9111/spinrunner/movement"
	"github.com/milk9111/spinrunner/scatter"
	"gopkg.in/yaml.v3"
)

// CharacterFile is the default character tuning prefab.
const CharacterFile = "character.yaml"

// CharacterSpec is the tuning for one playable character. Fields missing
// from the file keep their built-in defaults.
type CharacterSpec struct {
	Name     string          `yaml:"name"`
	Movement movement.Config `yaml:"movement"`
	Scatter  scatter.Config  `yaml:"scatter"`
}

func DefaultCharacterSpec() CharacterSpec {
	return CharacterSpec{
		Name:     "character",
		Movement: movement.DefaultConfig(),
		Scatter:  scatter.DefaultConfig(),
	}
}

// LoadSpec decodes filename over into.
func LoadSpec[T any](filename string, into *T) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// LoadCharacterSpec loads and validates a character prefab.
func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	if filename == "" {
		filename = CharacterFile
	}
	spec := DefaultCharacterSpec()
	if err := LoadSpec(filename, &spec); err != nil {
		return nil, err
	}
	if err := spec.Movement.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}
