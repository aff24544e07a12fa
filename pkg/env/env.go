package env

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Load looks for a .env file in the current directory and its parents,
// stopping at the directory named projectDir, and loads the first one found.
// Variables already present in the environment are not overwritten.
func Load(projectDir string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}

		if filepath.Base(dir) == projectDir {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// No .env file is fine, the environment may be set externally.
	return nil
}
