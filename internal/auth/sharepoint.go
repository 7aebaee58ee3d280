package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AppCredential authenticates app-only via the OAuth2 client
// credentials grant against the tenant's token endpoint.
type AppCredential struct {
	ClientID     string
	ClientSecret string
}

func (c AppCredential) tokenSource(ctx context.Context, siteURL, tenant string) (oauth2.TokenSource, error) {
	scope, err := siteScope(siteURL)
	if err != nil {
		return nil, err
	}

	cfg := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     tokenURL(tenant),
		Scopes:       []string{scope},
	}

	return cfg.TokenSource(ctx), nil
}

// UserCredential authenticates with username/password via the resource
// owner password grant.
type UserCredential struct {
	Username string
	Password string
	ClientID string
}

func (c UserCredential) tokenSource(ctx context.Context, siteURL, tenant string) (oauth2.TokenSource, error) {
	scope, err := siteScope(siteURL)
	if err != nil {
		return nil, err
	}

	cfg := oauth2.Config{
		ClientID: c.ClientID,
		Endpoint: oauth2.Endpoint{TokenURL: tokenURL(tenant)},
		Scopes:   []string{scope},
	}

	token, err := cfg.PasswordCredentialsToken(ctx, c.Username, c.Password)
	if err != nil {
		return nil, fmt.Errorf("sharepoint username/password authentication failed: %w", err)
	}

	return cfg.TokenSource(ctx, token), nil
}

// NewSession resolves a credential into an authenticated session. The
// token is fetched eagerly so authentication failures surface here,
// before any sync work starts.
func NewSession(ctx context.Context, siteURL, tenant string, cred Credential) (*Session, error) {
	if cred == nil {
		return nil, errors.New("no valid sharepoint credentials provided")
	}

	ts, err := cred.tokenSource(ctx, siteURL, tenant)
	if err != nil {
		return nil, err
	}

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("sharepoint authentication failed: %w", err)
	}

	return &Session{
		client:  oauth2.NewClient(ctx, ts),
		siteURL: siteURL,
	}, nil
}

func tokenURL(tenant string) string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenant)
}

// siteScope derives the {host}/.default scope for the site being synced.
func siteScope(siteURL string) (string, error) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid sharepoint site url %q", siteURL)
	}

	return fmt.Sprintf("https://%s/.default", u.Host), nil
}
