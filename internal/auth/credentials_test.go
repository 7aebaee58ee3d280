package auth

import (
	"context"
	"mlsync/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfigPrefersAppCredentials(t *testing.T) {
	cfg := &config.Config{
		SharePointClientID:     "app-id",
		SharePointClientSecret: "app-secret",
		SharePointUsername:     "alice",
		SharePointPassword:     "hunter2",
	}

	cred, err := FromConfig(cfg)
	require.NoError(t, err)

	app, ok := cred.(AppCredential)
	require.True(t, ok)
	assert.Equal(t, "app-id", app.ClientID)
	assert.Equal(t, "app-secret", app.ClientSecret)
}

func TestFromConfigUserCredentials(t *testing.T) {
	cfg := &config.Config{
		SharePointUsername: "alice",
		SharePointPassword: "hunter2",
	}

	cred, err := FromConfig(cfg)
	require.NoError(t, err)

	user, ok := cred.(UserCredential)
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
}

func TestFromConfigNoCredentials(t *testing.T) {
	_, err := FromConfig(&config.Config{SharePointSite: "https://tenant.sharepoint.com/sites/ml"})
	assert.ErrorContains(t, err, "no valid sharepoint credentials")
}

func TestNewSessionNilCredential(t *testing.T) {
	_, err := NewSession(context.Background(), "https://tenant.sharepoint.com/sites/ml", "tenant-id", nil)
	assert.Error(t, err)
}

func TestSiteScope(t *testing.T) {
	scope, err := siteScope("https://tenant.sharepoint.com/sites/ml")
	require.NoError(t, err)
	assert.Equal(t, "https://tenant.sharepoint.com/.default", scope)

	_, err = siteScope("not a url")
	assert.Error(t, err)
}

func TestTokenURL(t *testing.T) {
	assert.Equal(t,
		"https://login.microsoftonline.com/contoso.onmicrosoft.com/oauth2/v2.0/token",
		tokenURL("contoso.onmicrosoft.com"))
}
