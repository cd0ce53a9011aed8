//go:build nogui

package gui

import (
	"fmt"

	"ezsubs/internal/config"
	"ezsubs/internal/session"
)

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(_ *config.Config, _ *session.Session) error {
	return fmt.Errorf("GUI not available in this build, use the tui or sync commands")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}

// Create returns an error: there is no GUI in this build.
func (f *Factory) Create() (Interface, error) {
	return nil, fmt.Errorf("GUI not available in this build")
}
