package workflows

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/PolarWolf314/sdp/internal/configs"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/keys"
)

// recipient is a resolved public key and how it was named.
type recipient struct {
	PublicKey   []byte
	Label       string
	Fingerprint string
}

// resolveRecipient picks the public key from an explicit path, a key name or
// the configured default, in that order.
func resolveRecipient(store *keys.Store, cfg *configs.UserConfig, name, publicKeyPath string) (*recipient, error) {
	if publicKeyPath != "" {
		pub, err := keys.LoadPublicKey(publicKeyPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sderrors.ErrFileNotFound, publicKeyPath)
		}
		if err != nil {
			return nil, err
		}
		return &recipient{PublicKey: pub, Label: publicKeyPath, Fingerprint: keys.Fingerprint(pub)}, nil
	}

	if name == "" {
		name = cfg.Keys.DefaultRecipient
	}
	if name == "" {
		return nil, sderrors.ErrNoRecipient
	}

	key, err := store.Get(name)
	if err != nil {
		return nil, err
	}
	return &recipient{PublicKey: key.PublicKey, Label: name, Fingerprint: key.Fingerprint}, nil
}

// identity is a resolved private key.
type identity struct {
	Key   *keys.PrivateKey
	Label string
}

// resolveIdentity picks the private key from piped data, an explicit path, a
// key name or the configured default, in that order.
func resolveIdentity(store *keys.Store, cfg *configs.UserConfig, name, privateKeyPath string, data []byte) (*identity, error) {
	if len(data) > 0 {
		key, err := keys.ParsePrivateKey(data)
		if err != nil {
			return nil, err
		}
		return &identity{Key: &keys.PrivateKey{Key: key}, Label: "stdin"}, nil
	}

	if privateKeyPath != "" {
		priv, err := keys.LoadPrivateKey(privateKeyPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sderrors.ErrFileNotFound, privateKeyPath)
		}
		if err != nil {
			return nil, err
		}
		return &identity{Key: priv, Label: privateKeyPath}, nil
	}

	if name == "" {
		name = cfg.Keys.DefaultRecipient
	}
	if name == "" {
		return nil, sderrors.ErrNoRecipient
	}

	priv, err := store.PrivateKey(name)
	if err != nil {
		return nil, err
	}
	return &identity{Key: priv, Label: name}, nil
}
