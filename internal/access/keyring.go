package access

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

var ErrUnknownKey = errors.New("unknown api key")

type keyringFile struct {
	Defaults limitsFile `toml:"defaults"`
	Keys     []keyFile  `toml:"keys"`
}

type limitsFile struct {
	MaxSubscriptions *int    `toml:"max_subscriptions"`
	RatePerMinute    *int    `toml:"rate_per_minute"`
	HistoricalLimit  *uint64 `toml:"historical_limit"`
	MaxOpenFields    *int    `toml:"max_open_fields"`
}

type keyFile struct {
	ID     string   `toml:"id"`
	User   string   `toml:"user"`
	Key    string   `toml:"key"`
	Scopes []string `toml:"scopes"`

	MaxSubscriptions *int    `toml:"max_subscriptions"`
	RatePerMinute    *int    `toml:"rate_per_minute"`
	HistoricalLimit  *uint64 `toml:"historical_limit"`
	MaxOpenFields    *int    `toml:"max_open_fields"`
}

func (k keyFile) limits() limitsFile {
	return limitsFile{
		MaxSubscriptions: k.MaxSubscriptions,
		RatePerMinute:    k.RatePerMinute,
		HistoricalLimit:  k.HistoricalLimit,
		MaxOpenFields:    k.MaxOpenFields,
	}
}

// Keyring maps api keys to credentials.
type Keyring struct {
	mu   sync.RWMutex
	keys map[string]Credential
}

// NewKeyring builds a keyring from key to credential pairs.
func NewKeyring(keys map[string]Credential) *Keyring {
	k := &Keyring{keys: make(map[string]Credential, len(keys))}
	for key, cred := range keys {
		k.keys[key] = cred
	}
	return k
}

// LoadKeyring reads a TOML keyring; limits missing from the file fall back to defaults.
func LoadKeyring(path string, defaults Limits) (*Keyring, error) {
	var file keyringFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("decode keyring %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("keyring %s: unknown keys %v", path, undecoded)
	}

	defaults = file.Defaults.apply(defaults)
	keys := make(map[string]Credential, len(file.Keys))
	for i, kf := range file.Keys {
		if kf.Key == "" || kf.ID == "" {
			return nil, fmt.Errorf("keyring %s: entry %d needs id and key", path, i)
		}
		if _, ok := keys[kf.Key]; ok {
			return nil, fmt.Errorf("keyring %s: duplicate key for %s", path, kf.ID)
		}

		scopes := make([]Scope, 0, len(kf.Scopes))
		for _, raw := range kf.Scopes {
			scope, ok := ParseScope(raw)
			if !ok {
				return nil, fmt.Errorf("keyring %s: entry %s has unknown scope %q", path, kf.ID, raw)
			}
			scopes = append(scopes, scope)
		}

		keys[kf.Key] = Credential{
			ID:     kf.ID,
			User:   kf.User,
			Scopes: scopes,
			Limits: kf.limits().apply(defaults),
		}
	}
	return NewKeyring(keys), nil
}

// Lookup returns the credential of an api key.
func (k *Keyring) Lookup(key string) (Credential, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	cred, ok := k.keys[strings.TrimSpace(key)]
	if !ok {
		return Credential{}, ErrUnknownKey
	}
	return cred, nil
}

// Len returns the number of keys.
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

func (l limitsFile) apply(base Limits) Limits {
	if l.MaxSubscriptions != nil {
		base.MaxSubscriptions = *l.MaxSubscriptions
	}
	if l.RatePerMinute != nil {
		base.RatePerMinute = *l.RatePerMinute
	}
	if l.HistoricalLimit != nil {
		base.HistoricalLimit = *l.HistoricalLimit
	}
	if l.MaxOpenFields != nil {
		base.MaxOpenFields = *l.MaxOpenFields
	}
	return base
}
