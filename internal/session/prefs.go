package session

import (
	"context"
	"strconv"
	"strings"

	"github.com/naumanrao/courseadmin/internal/repository"
)

const (
	keyRememberedEmail    = "rememberedEmail"
	keyRememberedPassword = "rememberedPassword"
	keyDarkMode           = "loginDarkMode"
)

// Preferences are the settings kept in local storage across runs.
type Preferences struct {
	kv    repository.KVStore
	codec *Codec
}

func NewPreferences(kv repository.KVStore, codec *Codec) *Preferences {
	return &Preferences{kv: kv, codec: codec}
}

// RememberedLogin returns the saved username and password. ok is false
// when nothing is saved or the saved password no longer unseals.
func (p *Preferences) RememberedLogin(ctx context.Context) (username, password string, ok bool, err error) {
	raw, err := p.kv.GetMany(ctx, keyRememberedEmail, keyRememberedPassword)
	if err != nil {
		return "", "", false, err
	}
	username = raw[keyRememberedEmail]
	if username == "" {
		return "", "", false, nil
	}
	if p.codec.Open(keyRememberedPassword, raw[keyRememberedPassword], &password) != nil {
		return username, "", false, nil
	}
	return username, password, true, nil
}

// Remember saves the login for prefilling the next login form.
func (p *Preferences) Remember(ctx context.Context, username, password string) error {
	sealed, err := p.codec.Seal(keyRememberedPassword, password)
	if err != nil {
		return err
	}
	return p.kv.SetMany(ctx, map[string]string{
		keyRememberedEmail:    strings.TrimSpace(username),
		keyRememberedPassword: sealed,
	})
}

// Forget removes any saved login.
func (p *Preferences) Forget(ctx context.Context) error {
	return p.kv.Delete(ctx, keyRememberedEmail, keyRememberedPassword)
}

func (p *Preferences) DarkMode(ctx context.Context) (bool, error) {
	v, ok, err := p.kv.Get(ctx, keyDarkMode)
	if err != nil || !ok {
		return false, err
	}
	dark, _ := strconv.ParseBool(v)
	return dark, nil
}

func (p *Preferences) SetDarkMode(ctx context.Context, dark bool) error {
	return p.kv.Set(ctx, keyDarkMode, strconv.FormatBool(dark))
}
