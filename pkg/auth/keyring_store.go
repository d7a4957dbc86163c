package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "igoauth"
	keyringPrefix  = "session_"
	// keyringIndex lists stored account names, since keyrings cannot enumerate keys
	keyringIndex = "index"
)

// KeyringStore implements TokenStore using the system keychain
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed store after checking that the keyring is usable
func NewKeyringStore() (*KeyringStore, error) {
	return newKeyringStore(keyringService)
}

func newKeyringStore(service string) (*KeyringStore, error) {
	testKey := "test_availability"
	if err := keyring.Set(service, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(service, testKey)

	return &KeyringStore{service: service}, nil
}

// Store saves the session as JSON in the keychain
func (k *KeyringStore) Store(session *Session) error {
	if session == nil || session.Account == "" {
		return ErrInvalidSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := keyring.Set(k.service, keyringPrefix+session.Account, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return k.updateIndex(func(accounts map[string]bool) { accounts[session.Account] = true })
}

// Retrieve gets the session for an account from the keychain
func (k *KeyringStore) Retrieve(account string) (*Session, error) {
	if account == "" {
		return nil, ErrInvalidSession
	}

	data, err := keyring.Get(k.service, keyringPrefix+account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// List returns the sessions named in the keyring index
func (k *KeyringStore) List() ([]*Session, error) {
	accounts, err := k.readIndex()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	var sessions []*Session
	for _, name := range names {
		session, err := k.Retrieve(name)
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Delete removes the session for an account from the keychain
func (k *KeyringStore) Delete(account string) error {
	if account == "" {
		return ErrInvalidSession
	}

	if err := keyring.Delete(k.service, keyringPrefix+account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return k.updateIndex(func(accounts map[string]bool) { delete(accounts, account) })
}

// Exists reports whether the keychain holds a session for the account
func (k *KeyringStore) Exists(account string) bool {
	if account == "" {
		return false
	}
	_, err := keyring.Get(k.service, keyringPrefix+account)
	return err == nil
}

func (k *KeyringStore) readIndex() (map[string]bool, error) {
	accounts := make(map[string]bool)

	data, err := keyring.Get(k.service, keyringIndex)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return accounts, nil
		}
		return nil, fmt.Errorf("failed to read keyring index: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("failed to parse keyring index: %w", err)
	}
	for _, name := range names {
		accounts[name] = true
	}
	return accounts, nil
}

func (k *KeyringStore) updateIndex(mutate func(map[string]bool)) error {
	accounts, err := k.readIndex()
	if err != nil {
		return err
	}
	mutate(accounts)

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal keyring index: %w", err)
	}
	if err := keyring.Set(k.service, keyringIndex, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring index: %w", err)
	}
	return nil
}
