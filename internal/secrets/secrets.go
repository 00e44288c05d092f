// Package secrets encrypts values stored at rest in the system_setting table.
package secrets

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrNoKey indicates no fernet key has been configured.
var ErrNoKey = errors.New("fernet key not configured")

// Codec encrypts and decrypts short secret strings with a fernet key.
type Codec struct {
	key *fernet.Key
}

// NewCodec parses a base64-encoded fernet key. An empty key string yields a
// codec that refuses to operate, so callers can defer the configuration error
// until a secret is actually needed.
func NewCodec(encodedKey string) (*Codec, error) {
	if encodedKey == "" {
		return &Codec{}, nil
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &Codec{key: key}, nil
}

// Encrypt seals the plaintext into a fernet token.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if c.key == nil {
		return "", ErrNoKey
	}

	token, err := fernet.EncryptAndSign([]byte(plaintext), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Decrypt opens a fernet token produced by Encrypt. Tokens do not expire;
// rotation happens by rewriting the stored setting.
func (c *Codec) Decrypt(token string) (string, error) {
	if c.key == nil {
		return "", ErrNoKey
	}

	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{c.key})
	if plaintext == nil {
		return "", errors.New("failed to decrypt secret: invalid token")
	}
	return string(plaintext), nil
}

// GenerateKey creates a new random fernet key in its encoded form.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate fernet key: %w", err)
	}
	return key.Encode(), nil
}
