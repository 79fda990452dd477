package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type darwinManager struct {
	home func() (string, error)
}

func (m *darwinManager) GetFontPaths() (FontPaths, error) {
	homeDir, err := m.home()
	if err != nil {
		return FontPaths{}, fmt.Errorf("getting user home directory: %w", err)
	}

	paths := FontPaths{
		SystemDir: "/Library/Fonts",
		UserDir:   filepath.Join(homeDir, "Library/Fonts"),
	}
	if err := os.MkdirAll(paths.UserDir, 0755); err != nil {
		return FontPaths{}, fmt.Errorf("creating user fonts directory: %w", err)
	}

	return paths, nil
}

// UpdateFontCache touches the user font directory; macOS rescans it on
// change
func (m *darwinManager) UpdateFontCache() error {
	paths, err := m.GetFontPaths()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := os.Chtimes(paths.UserDir, now, now); err != nil {
		return fmt.Errorf("updating directory timestamp: %w", err)
	}
	return nil
}
