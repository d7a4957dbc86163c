package main

import (
	"fmt"
	"net/http"
	"time"

	"igoauth/pkg/auth"
	"igoauth/pkg/config"
	"igoauth/pkg/instagram"
	"igoauth/pkg/logger"
)

// Overridden in tests.
var (
	endpoints = instagram.DefaultEndpoints()
	now       = time.Now
)

// app bundles what every OAuth command needs: configuration, the stored
// session of the selected account and a client seeded with its tokens.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	manager *auth.Manager
	session *auth.Session
	client  *instagram.Client
}

func loadConfig() (*config.Config, error) {
	return config.Load(configFile, config.Flags{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		Account:      account,
		LogLevel:     logLevel,
	})
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger().WithField("account", cfg.Storage.Account)

	manager, err := auth.NewManagerForBackend(cfg.Storage.Backend, cfg.Storage.File, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		manager: manager,
		session: manager.RetrieveOrNew(cfg.Storage.Account),
	}
	a.client = a.newClient(cfg.Instagram.ClientSecret)
	return a, nil
}

// newClient builds a client seeded with the session tokens. A configured
// redirect URI wins over the stored one.
func (a *app) newClient(secret string) *instagram.Client {
	client := instagram.NewClient(a.cfg.Instagram.ClientID, secret,
		instagram.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTP.Timeout}),
		instagram.WithUserAgent(a.cfg.HTTP.UserAgent),
		instagram.WithLogger(a.log),
		instagram.WithEndpoints(endpoints),
		instagram.WithClock(now),
	)
	client.SetTokenState(a.session.Tokens)
	if a.cfg.Instagram.RedirectURI != "" {
		client.SetRedirectURI(a.cfg.Instagram.RedirectURI)
	}
	return client
}

// requireWritable fails before any request is sent when no configured
// store can persist the tokens the command would obtain
func (a *app) requireWritable(command string) error {
	if a.manager.Writable() {
		return nil
	}
	return fmt.Errorf("storage backend %q is read-only and %s would lose the tokens it obtains; select keyring, file or auto with IGOAUTH_STORAGE_BACKEND or storage.backend",
		a.cfg.Storage.Backend, command)
}

// save persists the client's token state under the selected account
func (a *app) save() error {
	a.session.Tokens = a.client.TokenState()
	if err := a.manager.Store(a.session); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// checkResult turns an API error payload into an error
func checkResult(result instagram.Result) error {
	if apiErr := result.APIError(); apiErr != nil {
		return apiErr.AsError()
	}
	return nil
}

func formatExpiry(unix int64) string {
	if unix == 0 {
		return "unknown"
	}
	return time.Unix(unix, 0).Format("2006-01-02 15:04:05 MST")
}
