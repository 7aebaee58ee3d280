package auth

import (
	"errors"
	"mlsync/internal/config"
)

// FromConfig picks the credential kind from configuration. App
// credentials win when both kinds are present.
func FromConfig(cfg *config.Config) (Credential, error) {
	if cfg.SharePointClientID != "" && cfg.SharePointClientSecret != "" {
		return AppCredential{
			ClientID:     cfg.SharePointClientID,
			ClientSecret: cfg.SharePointClientSecret,
		}, nil
	}

	if cfg.SharePointUsername != "" && cfg.SharePointPassword != "" {
		return UserCredential{
			Username: cfg.SharePointUsername,
			Password: cfg.SharePointPassword,
			ClientID: cfg.SharePointClientID,
		}, nil
	}

	return nil, errors.New("no valid sharepoint credentials provided: set either client id/secret or username/password")
}
