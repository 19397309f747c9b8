package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// OAuthProvider wraps the external identity provider login flow. A
// successful exchange yields an upstream identity, which the caller
// converts into a local JWTManager session token — the provider is never
// trusted as the session mechanism itself.
type OAuthProvider struct {
	config   *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewOAuthProvider builds a provider from client credentials and issuer
// endpoints. issuerAuthURL/issuerTokenURL are the provider's authorization
// and token endpoints; userInfoURL returns the logged-in user's profile.
func NewOAuthProvider(clientID, clientSecret, issuerAuthURL, issuerTokenURL, userInfoURL, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  issuerAuthURL,
				TokenURL: issuerTokenURL,
			},
		},
		userInfoURL: userInfoURL,
		httpClient:  http.DefaultClient,
	}
}

// AuthCodeURL returns the URL to redirect the player's browser to for login.
func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Identity is the subset of the provider's profile response used to mint a
// local session.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// ExchangeAndFetchIdentity trades an authorization code for a token and
// fetches the associated identity from the provider's userinfo endpoint.
func (p *OAuthProvider) ExchangeAndFetchIdentity(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging oauth code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decoding userinfo response: %w", err)
	}
	return &id, nil
}
