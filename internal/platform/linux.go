package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

type linuxManager struct {
	home     func() (string, error)
	cacheCmd string
}

func (m *linuxManager) GetFontPaths() (FontPaths, error) {
	homeDir, err := m.home()
	if err != nil {
		return FontPaths{}, fmt.Errorf("getting user home directory: %w", err)
	}

	paths := FontPaths{
		SystemDir: "/usr/local/share/fonts",
		UserDir:   filepath.Join(homeDir, ".local/share/fonts"),
	}
	if err := os.MkdirAll(paths.UserDir, 0755); err != nil {
		return FontPaths{}, fmt.Errorf("creating user fonts directory: %w", err)
	}

	return paths, nil
}

// UpdateFontCache rescans the user font directory only, which never needs
// elevated privileges
func (m *linuxManager) UpdateFontCache() error {
	paths, err := m.GetFontPaths()
	if err != nil {
		return err
	}
	return runCommand(m.cacheCmd, "-f", paths.UserDir)
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %s: %w", name, output, err)
	}
	return nil
}
