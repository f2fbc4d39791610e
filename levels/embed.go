package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed *.json
var LevelsFS embed.FS

// LoadLevelFromFS loads one of the embedded levels by file name.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// LoadLevel reads a level from disk, falling back to the embedded copy
// when no file exists at path.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadLevelFromFS(path)
		}
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}
