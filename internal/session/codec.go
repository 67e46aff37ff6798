package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gorilla/securecookie"

	"github.com/naumanrao/courseadmin/internal/repository"
)

const (
	keyCodecHash  = "sealHashKey"
	keyCodecBlock = "sealBlockKey"
)

// ErrUnsealed means a stored value failed authentication or decryption.
var ErrUnsealed = errors.New("session: stored value could not be unsealed")

// Codec seals values with HMAC-SHA256 and AES so rows in the local database
// cannot be read or forged by editing the file.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec builds a Codec from raw keys. blockKey may be nil to sign without
// encrypting.
func NewCodec(hashKey, blockKey []byte) *Codec {
	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	// Session lifetime is enforced by Store.IsExpired, not by the codec.
	sc.MaxAge(0)
	return &Codec{sc: sc}
}

// LoadCodec reads the codec keys from local storage, generating and saving
// a fresh pair on first run.
func LoadCodec(ctx context.Context, local repository.KVStore) (*Codec, error) {
	stored, err := local.GetMany(ctx, keyCodecHash, keyCodecBlock)
	if err != nil {
		return nil, fmt.Errorf("loading codec keys: %w", err)
	}

	hashKey, hashErr := base64.StdEncoding.DecodeString(stored[keyCodecHash])
	blockKey, blockErr := base64.StdEncoding.DecodeString(stored[keyCodecBlock])
	if hashErr == nil && blockErr == nil && len(hashKey) == 64 && len(blockKey) == 32 {
		return NewCodec(hashKey, blockKey), nil
	}

	hashKey = securecookie.GenerateRandomKey(64)
	blockKey = securecookie.GenerateRandomKey(32)
	if hashKey == nil || blockKey == nil {
		return nil, errors.New("generating codec keys: no entropy")
	}
	err = local.SetMany(ctx, map[string]string{
		keyCodecHash:  base64.StdEncoding.EncodeToString(hashKey),
		keyCodecBlock: base64.StdEncoding.EncodeToString(blockKey),
	})
	if err != nil {
		return nil, fmt.Errorf("saving codec keys: %w", err)
	}
	return NewCodec(hashKey, blockKey), nil
}

// Seal encodes v under name. The name is bound into the MAC, so a value
// sealed for one key cannot be replayed under another.
func (c *Codec) Seal(name string, v any) (string, error) {
	out, err := c.sc.Encode(name, v)
	if err != nil {
		return "", fmt.Errorf("sealing %s: %w", name, err)
	}
	return out, nil
}

// Open decodes a sealed value into dst.
func (c *Codec) Open(name, sealed string, dst any) error {
	if err := c.sc.Decode(name, sealed, dst); err != nil {
		return fmt.Errorf("%w: %s", ErrUnsealed, name)
	}
	return nil
}
