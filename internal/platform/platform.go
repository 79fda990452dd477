// Package platform knows where each OS keeps user fonts and how to make
// the OS pick up newly added ones.
package platform

import (
	"os"
	"runtime"
)

// FontPaths represents system and user font directories
type FontPaths struct {
	SystemDir string // System-wide font directory
	UserDir   string // User-specific font directory
}

// Manager handles platform-specific operations
type Manager interface {
	// GetFontPaths returns the system and user font directories, creating
	// the user directory if needed
	GetFontPaths() (FontPaths, error)

	// UpdateFontCache makes the OS notice fonts added to the user directory
	UpdateFontCache() error
}

// New returns the manager for the running OS
func New() Manager {
	return NewFor(runtime.GOOS)
}

// NewFor returns the manager for goos. Anything other than darwin is
// treated as a freedesktop system.
func NewFor(goos string) Manager {
	if goos == "darwin" {
		return &darwinManager{home: os.UserHomeDir}
	}
	return &linuxManager{home: os.UserHomeDir, cacheCmd: "fc-cache"}
}
