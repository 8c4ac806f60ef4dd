package workflows

import (
	"context"
	"io"

	"github.com/PolarWolf314/sdp/internal/audit"
	"github.com/PolarWolf314/sdp/internal/configs"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/keys"
)

// GenerateKeyOptions configures key generation.
type GenerateKeyOptions struct {
	Name string

	// SetDefault records the key as keys.default_recipient.
	SetDefault bool

	// Random overrides the entropy source. Nil uses crypto/rand.
	Random io.Reader
}

// KeyResult describes a stored key.
type KeyResult struct {
	Key *keys.Key

	PublicKeyPath  string
	PrivateKeyPath string

	// IsDefault reports whether the key is keys.default_recipient.
	IsDefault bool
}

// GenerateKey creates a new named key pair in the user's key store.
//
// Returns ErrInvalidKeyName if the name has unsupported characters.
// Returns ErrKeyExists if a key with the name is already stored.
func GenerateKey(ctx context.Context, opts GenerateKeyOptions) (*KeyResult, error) {
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	store := keys.DefaultStore()
	key, err := store.Generate(opts.Name, opts.Random)
	if err != nil {
		return nil, err
	}

	isDefault, err := maybeSetDefault(cfg, opts.Name, opts.SetDefault)
	if err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser("keygen")
	auditEntry.Key = key.Name
	audit.Log(auditEntry)

	return keyResult(store, key, isDefault), nil
}

// ImportKeyOptions configures key import.
type ImportKeyOptions struct {
	Name string

	// PrivateKeyData is the raw or base64 private key.
	PrivateKeyData []byte

	SetDefault bool
}

// ImportKey stores an existing private key under a name.
func ImportKey(ctx context.Context, opts ImportKeyOptions) (*KeyResult, error) {
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	priv, err := keys.ParsePrivateKey(opts.PrivateKeyData)
	if err != nil {
		return nil, err
	}
	defer clear(priv)

	store := keys.DefaultStore()
	key, err := store.Import(opts.Name, priv)
	if err != nil {
		return nil, err
	}

	isDefault, err := maybeSetDefault(cfg, opts.Name, opts.SetDefault)
	if err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser("keyimport")
	auditEntry.Key = key.Name
	audit.Log(auditEntry)

	return keyResult(store, key, isDefault), nil
}

// ListKeys returns every stored key, sorted by name.
func ListKeys(ctx context.Context) ([]*KeyResult, error) {
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	store := keys.DefaultStore()
	stored, err := store.List()
	if err != nil {
		return nil, err
	}

	results := make([]*KeyResult, 0, len(stored))
	for _, key := range stored {
		results = append(results, keyResult(store, key, key.Name == cfg.Keys.DefaultRecipient))
	}
	return results, nil
}

// ShowKey returns one stored key. An empty name shows the default recipient.
//
// Returns ErrNoRecipient if name is empty and no default is configured.
// Returns ErrKeyNotFound if the key is not stored.
func ShowKey(ctx context.Context, name string) (*KeyResult, error) {
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = cfg.Keys.DefaultRecipient
	}
	if name == "" {
		return nil, sderrors.ErrNoRecipient
	}

	store := keys.DefaultStore()
	key, err := store.Get(name)
	if err != nil {
		return nil, err
	}
	return keyResult(store, key, name == cfg.Keys.DefaultRecipient), nil
}

func keyResult(store *keys.Store, key *keys.Key, isDefault bool) *KeyResult {
	return &KeyResult{
		Key:            key,
		PublicKeyPath:  store.PublicKeyPath(key.Name),
		PrivateKeyPath: store.PrivateKeyPath(key.Name),
		IsDefault:      isDefault,
	}
}

// maybeSetDefault makes name the default recipient when asked to, or when
// no default exists yet.
func maybeSetDefault(cfg *configs.UserConfig, name string, force bool) (bool, error) {
	if !force && cfg.Keys.DefaultRecipient != "" {
		return cfg.Keys.DefaultRecipient == name, nil
	}

	cfg.Keys.DefaultRecipient = name
	if err := configs.SaveUserConfig(cfg); err != nil {
		return false, err
	}
	return true, nil
}
