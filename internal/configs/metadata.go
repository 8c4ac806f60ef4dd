package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// KeyMetadata is stored as key.toml next to each key pair.
type KeyMetadata struct {
	ID          string    `toml:"id"`
	Name        string    `toml:"name"`
	CreatedAt   time.Time `toml:"created_at"`
	Fingerprint string    `toml:"fingerprint"`
}

// GenerateKeyID generates a new identifier for a key pair.
func GenerateKeyID() string {
	return uuid.New().String()
}

// SaveKeyMetadata writes meta to path.
func SaveKeyMetadata(path string, meta *KeyMetadata) error {
	if err := SaveTOML(path, meta, 0644); err != nil {
		return fmt.Errorf("failed to save key metadata: %w", err)
	}
	return nil
}

// LoadKeyMetadata reads the metadata at path. A missing file returns nil
// metadata and no error, since keys imported by hand may lack it.
func LoadKeyMetadata(path string) (*KeyMetadata, error) {
	meta := &KeyMetadata{}
	if _, err := toml.DecodeFile(path, meta); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load key metadata: %w", err)
	}
	if meta.ID != "" {
		if _, err := uuid.Parse(meta.ID); err != nil {
			return nil, fmt.Errorf("key metadata %s has an invalid id: %w", path, err)
		}
	}
	return meta, nil
}
