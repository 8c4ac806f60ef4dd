package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/sdp/internal/utils"
)

type UserSettings struct {
	UserKeysPath    string
	UserConfigsPath string
	UserDataPath    string
	AuditLogPath    string
	Username        string
}

// UserSDPSettings is resolved once at startup. Tests point it at temporary
// directories.
var UserSDPSettings *UserSettings

func init() {
	settings, err := DefaultUserSettings()
	if err != nil {
		log.Fatalf("error resolving user settings: %s", err)
	}
	UserSDPSettings = settings
}

// DefaultUserSettings derives the standard locations from the environment.
// Key material and the audit log live under XDG_DATA_HOME (or
// ~/.local/share), configuration under the OS config directory.
func DefaultUserSettings() (*UserSettings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("getting config directory: %w", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		return nil, fmt.Errorf("getting username: %w", err)
	}

	sdpData := filepath.Join(dataDir, "sdp")
	return &UserSettings{
		UserKeysPath:    filepath.Join(sdpData, "keys"),
		UserConfigsPath: filepath.Join(configDir, "sdp"),
		UserDataPath:    sdpData,
		AuditLogPath:    filepath.Join(sdpData, "audit.jsonl"),
		Username:        username,
	}, nil
}

// SettingsForRoot lays out every path below root. Used by tests and by
// callers that keep all state in one directory.
func SettingsForRoot(root, username string) *UserSettings {
	return &UserSettings{
		UserKeysPath:    filepath.Join(root, "data", "keys"),
		UserConfigsPath: filepath.Join(root, "config"),
		UserDataPath:    filepath.Join(root, "data"),
		AuditLogPath:    filepath.Join(root, "data", "audit.jsonl"),
		Username:        username,
	}
}
