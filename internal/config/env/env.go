package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Dir is where per-environment .env files live, relative to the repo root
var Dir = filepath.Join("internal", "config", "env")

// File returns the .env file for environment name
func File(name string) string {
	if name == "" {
		name = "development"
	}
	return filepath.Join(Dir, fmt.Sprintf(".env.%s", name))
}

// Read returns the variables defined in the .env file for name without
// touching the process environment. A missing file yields no variables.
func Read(name string) (map[string]string, error) {
	path := File(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return vars, nil
}
