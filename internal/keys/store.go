package keys

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/PolarWolf314/sdp/internal/configs"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/sdp"
	"github.com/PolarWolf314/sdp/internal/utils"
)

const (
	PrivateKeyFile = "private.key"
	PublicKeyFile  = "public.key"
	MetadataFile   = "key.toml"
)

// Store keeps named key pairs below Dir, one directory per key.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultStore returns the store in the user's keys directory.
func DefaultStore() *Store {
	return NewStore(configs.UserSDPSettings.UserKeysPath)
}

// Key describes a stored key pair. The private key is never held here.
type Key struct {
	Name        string
	Dir         string
	PublicKey   []byte
	Fingerprint string
	Metadata    *configs.KeyMetadata
}

// PublicKeyPath returns the public key file of name.
func (s *Store) PublicKeyPath(name string) string {
	return filepath.Join(s.Dir, name, PublicKeyFile)
}

// PrivateKeyPath returns the private key file of name.
func (s *Store) PrivateKeyPath(name string) string {
	return filepath.Join(s.Dir, name, PrivateKeyFile)
}

// MetadataPath returns the metadata file of name.
func (s *Store) MetadataPath(name string) string {
	return filepath.Join(s.Dir, name, MetadataFile)
}

func validateName(name string) error {
	if !utils.IsValidName(name) {
		return fmt.Errorf("%w: %q", sderrors.ErrInvalidKeyName, name)
	}
	return nil
}

// Exists reports whether a key pair named name is stored.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.PublicKeyPath(name))
	return err == nil
}

// Generate creates and stores a new key pair. A nil random uses crypto/rand.
func (s *Store) Generate(name string, random io.Reader) (*Key, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if s.Exists(name) {
		return nil, fmt.Errorf("%w: %s", sderrors.ErrKeyExists, name)
	}

	kp, err := sdp.GenerateKeyPair(random)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	return s.save(name, kp.PrivateKey[:], kp.PublicKey[:])
}

// Import stores an existing private key under name, deriving its public key.
func (s *Store) Import(name string, privateKey []byte) (*Key, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if s.Exists(name) {
		return nil, fmt.Errorf("%w: %s", sderrors.ErrKeyExists, name)
	}

	pub, err := sdp.PublicKeyOf(privateKey)
	if err != nil {
		return nil, err
	}
	return s.save(name, privateKey, pub)
}

func (s *Store) save(name string, privateKey, publicKey []byte) (*Key, error) {
	dir := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory at %s: %w", dir, err)
	}

	if err := os.WriteFile(s.PrivateKeyPath(name), privateKey, 0600); err != nil {
		return nil, fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(s.PublicKeyPath(name), publicKey, 0644); err != nil {
		return nil, fmt.Errorf("failed to write public key: %w", err)
	}

	meta := &configs.KeyMetadata{
		ID:          configs.GenerateKeyID(),
		Name:        name,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Fingerprint: Fingerprint(publicKey),
	}
	if err := configs.SaveKeyMetadata(s.MetadataPath(name), meta); err != nil {
		return nil, err
	}

	return &Key{
		Name:        name,
		Dir:         dir,
		PublicKey:   publicKey,
		Fingerprint: meta.Fingerprint,
		Metadata:    meta,
	}, nil
}

// Get loads the public half and metadata of name.
func (s *Store) Get(name string) (*Key, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	pub, err := LoadPublicKey(s.PublicKeyPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", sderrors.ErrKeyNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	meta, err := configs.LoadKeyMetadata(s.MetadataPath(name))
	if err != nil {
		return nil, err
	}

	return &Key{
		Name:        name,
		Dir:         filepath.Join(s.Dir, name),
		PublicKey:   pub,
		Fingerprint: Fingerprint(pub),
		Metadata:    meta,
	}, nil
}

// PrivateKey loads the private key of name.
func (s *Store) PrivateKey(name string) (*PrivateKey, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	priv, err := LoadPrivateKey(s.PrivateKeyPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", sderrors.ErrKeyNotFound, name)
	}
	return priv, err
}

// List returns all stored keys sorted by name. Directories without a public
// key are skipped. A missing store is empty.
func (s *Store) List() ([]*Key, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keys directory: %w", err)
	}

	var keys []*Key
	for _, entry := range entries {
		if !entry.IsDir() || !utils.IsValidName(entry.Name()) {
			continue
		}
		key, err := s.Get(entry.Name())
		if errors.Is(err, sderrors.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys, nil
}
