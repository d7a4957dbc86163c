package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"igoauth/pkg/instagram"
	"igoauth/pkg/logger"
)

// Session is the persisted token state of one account
type Session struct {
	Account      string               `json:"account"`
	Tokens       instagram.TokenState `json:"tokens"`
	LastModified time.Time            `json:"last_modified"`
}

// TokenStore is the interface for storing and retrieving sessions
type TokenStore interface {
	// Store saves the session under its account name
	Store(session *Session) error

	// Retrieve gets the session for an account
	Retrieve(account string) (*Session, error)

	// List returns all sessions the store can enumerate
	List() ([]*Session, error)

	// Delete removes the session for an account
	Delete(account string) error

	// Exists reports whether a session is stored for an account
	Exists(account string) bool
}

// Errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSession   = errors.New("invalid session")
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// Manager persists sessions through an ordered chain of stores
type Manager struct {
	stores []TokenStore
	logger logger.Logger
}

// NewManager creates a manager over the given stores, tried in order
func NewManager(log logger.Logger, stores ...TokenStore) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{stores: stores, logger: log}
}

// NewManagerForBackend builds the store chain for a backend name.
// "auto" tries the keyring, then the encrypted file, then the environment.
func NewManagerForBackend(backend, file string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	newFileStore := func() (TokenStore, error) {
		path := file
		if path == "" {
			dir, err := getConfigDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get config directory: %w", err)
			}
			path = filepath.Join(dir, "sessions.enc")
		}
		return NewEncryptedFileStore(path)
	}

	var stores []TokenStore
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "keyring":
		ks, err := NewKeyringStore()
		if err != nil {
			return nil, err
		}
		stores = append(stores, ks)
	case "file":
		fs, err := newFileStore()
		if err != nil {
			return nil, fmt.Errorf("failed to create encrypted store: %w", err)
		}
		stores = append(stores, fs)
	case "env":
		stores = append(stores, NewEnvironmentStore())
	case "auto", "":
		if ks, err := NewKeyringStore(); err == nil {
			stores = append(stores, ks)
		} else {
			log.WithError(err).Debug("keyring unavailable, skipping")
		}
		fs, err := newFileStore()
		if err != nil {
			return nil, fmt.Errorf("failed to create encrypted store: %w", err)
		}
		stores = append(stores, fs, NewEnvironmentStore())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}

	return NewManager(log, stores...), nil
}

// readOnly is implemented by stores that can serve sessions but never save them
type readOnly interface {
	ReadOnly() bool
}

// Writable reports whether at least one store in the chain can save sessions
func (m *Manager) Writable() bool {
	for _, store := range m.stores {
		if ro, ok := store.(readOnly); ok && ro.ReadOnly() {
			continue
		}
		return true
	}
	return false
}

// Store saves the session in the first store that accepts it
func (m *Manager) Store(session *Session) error {
	if session == nil || session.Account == "" {
		return ErrInvalidSession
	}

	session.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(session)
		if err == nil {
			m.logger.DebugWithFields("session stored", map[string]interface{}{
				"account": session.Account,
				"store":   fmt.Sprintf("%T", store),
			})
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store session: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets the session from the first store that has it
func (m *Manager) Retrieve(account string) (*Session, error) {
	for _, store := range m.stores {
		if session, err := store.Retrieve(account); err == nil && session != nil {
			return session, nil
		}
	}
	return nil, fmt.Errorf("%w for account: %s", ErrSessionNotFound, account)
}

// RetrieveOrNew returns the stored session or an empty one for the account
func (m *Manager) RetrieveOrNew(account string) *Session {
	session, err := m.Retrieve(account)
	if err != nil {
		return &Session{Account: account}
	}
	return session
}

// List returns the sessions of all stores, keeping the most recent per account
func (m *Manager) List() ([]*Session, error) {
	byAccount := make(map[string]*Session)

	for _, store := range m.stores {
		sessions, err := store.List()
		if err != nil {
			continue
		}
		for _, s := range sessions {
			if existing, ok := byAccount[s.Account]; !ok || s.LastModified.After(existing.LastModified) {
				byAccount[s.Account] = s
			}
		}
	}

	result := make([]*Session, 0, len(byAccount))
	for _, s := range byAccount {
		result = append(result, s)
	}
	return result, nil
}

// Delete removes the session from every store holding it
func (m *Manager) Delete(account string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(account); err == nil {
			deleted = true
		} else if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrStoreUnavailable) {
			lastErr = err
		}
	}

	if deleted {
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to delete session: %w", lastErr)
	}
	return fmt.Errorf("%w for account: %s", ErrSessionNotFound, account)
}

func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "igoauth")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "igoauth")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "igoauth")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "igoauth")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// SanitizeSession returns a copy with the tokens masked
func SanitizeSession(session *Session) *Session {
	if session == nil {
		return nil
	}

	sanitized := *session
	sanitized.Tokens.ShortLivedAccessToken = logger.Mask(session.Tokens.ShortLivedAccessToken)
	sanitized.Tokens.LongLivedAccessToken = logger.Mask(session.Tokens.LongLivedAccessToken)
	return &sanitized
}
