package authentication

// keystring.go keeps the CLI's session in the OS keyring.

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "recipehub-cli"
	sessionKey  = "session"
)

// ErrNoSession means nobody is logged in on this machine.
var ErrNoSession = errors.New("not logged in, run `recipehub auth login` first")

type StoredCredentials struct {
	Token     string    `json:"token"`
	CSRFToken string    `json:"csrf_token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the stored session has run out at now.
func (c *StoredCredentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

func StoreSession(creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, sessionKey, string(data))
}

func GetSession() (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, err
	}
	if creds.Expired(time.Now()) {
		return nil, ErrNoSession
	}
	return &creds, nil
}

func DeleteSession() error {
	err := keyring.Delete(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
