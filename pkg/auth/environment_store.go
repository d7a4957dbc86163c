package auth

import (
	"os"
	"strconv"
	"time"

	"igoauth/pkg/instagram"
)

// Environment variables read by EnvironmentStore
const (
	EnvShortLivedToken = "IGOAUTH_SHORT_LIVED_TOKEN"
	EnvLongLivedToken  = "IGOAUTH_LONG_LIVED_TOKEN"
	EnvExpiresIn       = "IGOAUTH_TOKEN_EXPIRES_IN"
	EnvExpiresWhen     = "IGOAUTH_TOKEN_EXPIRES_WHEN"
)

// EnvironmentStore implements TokenStore over environment variables.
// It is read-only and serves any account name.
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// ReadOnly is always true; the process cannot export variables to its parent
func (e *EnvironmentStore) ReadOnly() bool { return true }

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(session *Session) error {
	return ErrStoreUnavailable
}

// Retrieve builds a session from the environment; at least one token must be set
func (e *EnvironmentStore) Retrieve(account string) (*Session, error) {
	tokens := instagram.TokenState{
		ShortLivedAccessToken:           os.Getenv(EnvShortLivedToken),
		LongLivedAccessToken:            os.Getenv(EnvLongLivedToken),
		LongLivedAccessTokenExpiresIn:   envInt64(EnvExpiresIn),
		LongLivedAccessTokenExpiresWhen: envInt64(EnvExpiresWhen),
	}
	if tokens.ShortLivedAccessToken == "" && tokens.LongLivedAccessToken == "" {
		return nil, ErrSessionNotFound
	}

	if account == "" {
		account = "default"
	}
	return &Session{
		Account:      account,
		Tokens:       tokens,
		LastModified: time.Time{},
	}, nil
}

// List returns the environment session if one is set
func (e *EnvironmentStore) List() ([]*Session, error) {
	session, err := e.Retrieve("")
	if err != nil {
		return []*Session{}, nil
	}
	return []*Session{session}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(account string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(account string) bool {
	_, err := e.Retrieve(account)
	return err == nil
}

func envInt64(key string) int64 {
	n, _ := strconv.ParseInt(os.Getenv(key), 10, 64)
	return n
}
