package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/sdp"
	"github.com/PolarWolf314/sdp/internal/utils"
)

type UserConfig struct {
	Keys    KeysConfig    `toml:"keys"`
	Encrypt EncryptConfig `toml:"encrypt"`
	Decrypt DecryptConfig `toml:"decrypt"`
}

type KeysConfig struct {
	// DefaultRecipient names the key used when a command names none.
	DefaultRecipient string `toml:"default_recipient"`
}

type EncryptConfig struct {
	ChunkSize utils.ByteSize `toml:"chunk_size"`
	OutputDir string         `toml:"output_dir"`
}

type DecryptConfig struct {
	OutputDir string `toml:"output_dir"`
}

// DefaultUserConfig returns the configuration used when no file exists.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Encrypt: EncryptConfig{ChunkSize: utils.ByteSize(sdp.DefaultChunkSize)},
	}
}

// ConfigPath returns the location of the user config file.
func ConfigPath() string {
	return filepath.Join(UserSDPSettings.UserConfigsPath, "config.toml")
}

// ConfigExists reports whether the user config file is present.
func ConfigExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// LoadUserConfig loads the user configuration, falling back to defaults
// for a missing file or missing keys.
func LoadUserConfig() (*UserConfig, error) {
	config := DefaultUserConfig()

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", sderrors.ErrInvalidConfig, configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return config, nil
}

// SaveUserConfig validates and writes the user configuration.
func SaveUserConfig(config *UserConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(ConfigPath(), config, 0600); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// Validate checks every value that has a restricted range.
func (c *UserConfig) Validate() error {
	if c.Encrypt.ChunkSize <= 0 || c.Encrypt.ChunkSize > sdp.MaxChunkSize {
		return fmt.Errorf("%w: encrypt.chunk_size %d must be between 1 and %d bytes",
			sderrors.ErrInvalidConfig, c.Encrypt.ChunkSize, sdp.MaxChunkSize)
	}
	if name := c.Keys.DefaultRecipient; name != "" && !utils.IsValidName(name) {
		return fmt.Errorf("%w: keys.default_recipient %q is not a valid key name", sderrors.ErrInvalidConfig, name)
	}
	return nil
}
