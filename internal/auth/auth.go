package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// Credential is one of the supported SharePoint credential kinds. It is
// resolved into a Session exactly once, at the command boundary; nothing
// downstream of the session ever branches on the kind again.
type Credential interface {
	tokenSource(ctx context.Context, siteURL, tenant string) (oauth2.TokenSource, error)
}

// Session is an authenticated capability for one SharePoint site. The
// remote accessor consumes it as an opaque HTTP client.
type Session struct {
	client  *http.Client
	siteURL string
}

// NewStaticSession wraps a client that is already authenticated, or
// that talks to a server requiring no authentication.
func NewStaticSession(client *http.Client, siteURL string) *Session {
	return &Session{
		client:  client,
		siteURL: siteURL,
	}
}

func (s *Session) Client() *http.Client {
	return s.client
}

func (s *Session) SiteURL() string {
	return s.siteURL
}
