package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/spsbridge/internal/config"
)

// CheckExisting returns an error if dir already holds a spsbridge.yml
func CheckExisting(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, config.DefaultPath)); err == nil {
		return fmt.Errorf("bridge already initialized\n\nFound existing: %s\n\nUse 'spsbridge init --force' to overwrite it", config.DefaultPath)
	}
	return nil
}
