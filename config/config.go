// Package config resolves ccm's file locations and owns the profile store.
package config

import (
	"os"
	"path/filepath"
)

const (
	claudeDirName    = ".claude"
	profilesFileName = "cc-profiles.json"
	settingsFileName = "settings.json"
	logDirName       = "ccm"
	logFileName      = "ccm.log"
)

// Paths holds every location ccm reads or writes
type Paths struct {
	ClaudeDir    string
	ProfilesFile string
	SettingsFile string
	// LogFile is empty when no cache directory is available.
	LogFile string
}

// DefaultPaths resolves locations under the user's home directory, falling
// back to the working directory when home cannot be determined.
func DefaultPaths() Paths {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}

	paths := PathsUnder(filepath.Join(home, claudeDirName))
	if cache, err := os.UserCacheDir(); err == nil {
		paths.LogFile = filepath.Join(cache, logDirName, logFileName)
	}
	return paths
}

// PathsUnder places the profile store and settings file in claudeDir.
func PathsUnder(claudeDir string) Paths {
	return Paths{
		ClaudeDir:    claudeDir,
		ProfilesFile: filepath.Join(claudeDir, profilesFileName),
		SettingsFile: filepath.Join(claudeDir, settingsFileName),
	}
}
