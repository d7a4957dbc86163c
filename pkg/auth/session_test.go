package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"igoauth/pkg/instagram"
	"igoauth/pkg/logger"
)

func testSession(account string) *Session {
	return &Session{
		Account: account,
		Tokens: instagram.TokenState{
			RedirectURI:                     "https://app.example/cb",
			ShortLivedAccessToken:           "IGQVJshortlivedtoken1234",
			LongLivedAccessToken:            "IGQVJlonglivedtoken5678",
			LongLivedAccessTokenExpiresIn:   5184000,
			LongLivedAccessTokenExpiresWhen: 1_705_184_000,
		},
	}
}

func TestManagerStoreRetrieveDelete(t *testing.T) {
	mock := NewMockStore()
	manager := NewManager(logger.NewNopLogger(), mock)

	session := testSession("default")
	require.NoError(t, manager.Store(session))
	assert.False(t, session.LastModified.IsZero(), "Store should stamp LastModified")

	retrieved, err := manager.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, session.Tokens, retrieved.Tokens)

	sessions, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	require.NoError(t, manager.Delete("default"))
	assert.Equal(t, 0, mock.Count())

	_, err = manager.Retrieve("default")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = manager.Delete("default")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerRejectsInvalidSession(t *testing.T) {
	manager := NewManager(logger.NewNopLogger(), NewMockStore())

	assert.ErrorIs(t, manager.Store(nil), ErrInvalidSession)
	assert.ErrorIs(t, manager.Store(&Session{}), ErrInvalidSession)
}

func TestManagerFallback(t *testing.T) {
	failing := NewMockStore()
	failing.StoreError = errors.New("keyring locked")
	working := NewMockStore()

	manager := NewManager(logger.NewNopLogger(), failing, working)
	require.NoError(t, manager.Store(testSession("default")))

	assert.Equal(t, 0, failing.Count())
	assert.Equal(t, 1, working.Count())

	retrieved, err := manager.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "default", retrieved.Account)
}

func TestManagerStoreAllFail(t *testing.T) {
	failing := NewMockStore()
	failing.StoreError = errors.New("disk full")

	manager := NewManager(logger.NewNopLogger(), failing)
	err := manager.Store(testSession("default"))
	assert.ErrorContains(t, err, "disk full")

	assert.ErrorIs(t, NewManager(logger.NewNopLogger()).Store(testSession("x")), ErrStoreUnavailable)
}

func TestManagerListKeepsMostRecent(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()

	old := testSession("default")
	old.LastModified = time.Now().Add(-time.Hour)
	old.Tokens.LongLivedAccessToken = "old"
	require.NoError(t, older.Store(old))

	recent := testSession("default")
	recent.LastModified = time.Now()
	recent.Tokens.LongLivedAccessToken = "new"
	require.NoError(t, newer.Store(recent))
	require.NoError(t, newer.Store(testSession("work")))

	sessions, err := NewManager(logger.NewNopLogger(), older, newer).List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	for _, s := range sessions {
		if s.Account == "default" {
			assert.Equal(t, "new", s.Tokens.LongLivedAccessToken)
		}
	}
}

func TestManagerRetrieveOrNew(t *testing.T) {
	manager := NewManager(logger.NewNopLogger(), NewMockStore())

	session := manager.RetrieveOrNew("fresh")
	assert.Equal(t, "fresh", session.Account)
	assert.Equal(t, instagram.TokenState{}, session.Tokens)
}

func TestNewManagerForBackend(t *testing.T) {
	t.Setenv(PassphraseEnv, "test_passphrase_123")

	_, err := NewManagerForBackend("cloud", "", logger.NewNopLogger())
	assert.Error(t, err)

	envManager, err := NewManagerForBackend("env", "", logger.NewNopLogger())
	require.NoError(t, err)
	assert.ErrorIs(t, envManager.Store(testSession("default")), ErrStoreUnavailable)

	path := filepath.Join(t.TempDir(), "sessions.enc")
	fileManager, err := NewManagerForBackend("file", path, logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, fileManager.Store(testSession("default")))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewManagerForBackendIgnoresCase(t *testing.T) {
	t.Setenv(PassphraseEnv, "test_passphrase_123")

	manager, err := NewManagerForBackend("FILE", filepath.Join(t.TempDir(), "sessions.enc"), logger.NewNopLogger())
	require.NoError(t, err)
	assert.True(t, manager.Writable())

	manager, err = NewManagerForBackend(" Env", "", logger.NewNopLogger())
	require.NoError(t, err)
	assert.False(t, manager.Writable())
}

func TestManagerWritable(t *testing.T) {
	assert.False(t, NewManager(logger.NewNopLogger()).Writable())
	assert.False(t, NewManager(logger.NewNopLogger(), NewEnvironmentStore()).Writable())
	assert.True(t, NewManager(logger.NewNopLogger(), NewMockStore(), NewEnvironmentStore()).Writable())
	assert.True(t, NewManager(logger.NewNopLogger(), NewEnvironmentStore(), NewMockStore()).Writable())
}

func TestSanitizeSession(t *testing.T) {
	session := testSession("default")
	sanitized := SanitizeSession(session)

	assert.Equal(t, "IGQV...1234", sanitized.Tokens.ShortLivedAccessToken)
	assert.Equal(t, "IGQV...5678", sanitized.Tokens.LongLivedAccessToken)
	assert.Equal(t, session.Tokens.LongLivedAccessTokenExpiresWhen, sanitized.Tokens.LongLivedAccessTokenExpiresWhen)
	assert.Equal(t, "IGQVJlonglivedtoken5678", session.Tokens.LongLivedAccessToken, "original must not change")
	assert.Nil(t, SanitizeSession(nil))
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "test_passphrase_123")
	require.NoError(t, err)

	_, err = store.Retrieve("default")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Store(testSession("default")))
	require.NoError(t, store.Store(testSession("work")))

	retrieved, err := store.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, testSession("default").Tokens, retrieved.Tokens)
	assert.True(t, store.Exists("work"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "IGQVJlonglivedtoken5678", "tokens must not be stored in clear text")

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "default", sessions[0].Account)
	assert.Equal(t, "work", sessions[1].Account)

	require.NoError(t, store.Delete("work"))
	assert.False(t, store.Exists("work"))
	assert.ErrorIs(t, store.Delete("work"), ErrSessionNotFound)

	require.NoError(t, store.Delete("default"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty store should remove its file")
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.enc")

	store, err := NewEncryptedFileStoreWithPassphrase(path, "right")
	require.NoError(t, err)
	require.NoError(t, store.Store(testSession("default")))

	other, err := NewEncryptedFileStoreWithPassphrase(path, "wrong")
	require.NoError(t, err)

	_, err = other.Retrieve("default")
	assert.ErrorContains(t, err, "failed to decrypt")
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv(PassphraseEnv, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.enc")

	first, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Store(testSession("default")))

	info, err := os.Stat(filepath.Join(dir, ".passphrase"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	assert.True(t, second.Exists("default"), "a reopened store must reuse the saved passphrase")
}

func TestEncryptedFileStoreInvalidInput(t *testing.T) {
	store, err := NewEncryptedFileStoreWithPassphrase(filepath.Join(t.TempDir(), "s.enc"), "p")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Store(nil), ErrInvalidSession)
	_, err = store.Retrieve("")
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, store.Delete(""), ErrInvalidSession)

	_, err = NewEncryptedFileStoreWithPassphrase("x", "")
	assert.Error(t, err)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv(EnvShortLivedToken, "")
	t.Setenv(EnvLongLivedToken, "")
	_, err := store.Retrieve("default")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, store.Exists("default"))

	t.Setenv(EnvLongLivedToken, "LLT")
	t.Setenv(EnvExpiresIn, "5184000")
	t.Setenv(EnvExpiresWhen, "1705184000")

	session, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", session.Account)
	assert.Equal(t, "LLT", session.Tokens.LongLivedAccessToken)
	assert.Equal(t, int64(5184000), session.Tokens.LongLivedAccessTokenExpiresIn)
	assert.Equal(t, int64(1705184000), session.Tokens.LongLivedAccessTokenExpiresWhen)

	sessions, err := store.List()
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	assert.ErrorIs(t, store.Store(session), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("default"), ErrStoreUnavailable)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(testSession("default")))
	require.NoError(t, store.Store(testSession("work")))
	assert.True(t, store.Exists("default"))

	retrieved, err := store.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, testSession("default").Tokens, retrieved.Tokens)

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "default", sessions[0].Account)

	require.NoError(t, store.Delete("default"))
	assert.False(t, store.Exists("default"))
	assert.ErrorIs(t, store.Delete("default"), ErrSessionNotFound)

	_, err = store.Retrieve("default")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sessions, err = store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "work", sessions[0].Account)
}

func TestCleanCode(t *testing.T) {
	assert.Equal(t, "AQBx123", CleanCode(" AQBx123#_\n"))
	assert.Equal(t, "AQBx123", CleanCode("AQBx123"))
}

func TestShowAuthorizationGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowAuthorizationGuide(&buf, "https://api.instagram.com/oauth/authorize?client_id=1", "https://app.example/cb")

	assert.Contains(t, buf.String(), "https://api.instagram.com/oauth/authorize?client_id=1")
	assert.Contains(t, buf.String(), "https://app.example/cb?code=")
}
