// Package spotify wraps the two external collaborators the game needs
// from the streaming service: the OAuth code exchange and the track
// search API. The game core only ever consumes the premium flag and
// the flattened track descriptors.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIURL      = "https://api.spotify.com"

	// Scopes cover playback control (premium path) and track search.
	authScopes = "streaming user-read-email user-read-private user-modify-playback-state user-read-playback-state"
)

// Client talks to the streaming service's accounts and web API hosts.
type Client struct {
	http        *http.Client
	accountsURL string
	apiURL      string
	clientID    string
	secret      string
	redirectURI string
}

type Option func(*Client)

// WithBaseURLs overrides both hosts; tests point them at httptest servers.
func WithBaseURLs(accounts, api string) Option {
	return func(c *Client) {
		c.accountsURL = strings.TrimRight(accounts, "/")
		c.apiURL = strings.TrimRight(api, "/")
	}
}

func NewClient(clientID, secret, redirectURI string, opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		accountsURL: defaultAccountsURL,
		apiURL:      defaultAPIURL,
		clientID:    clientID,
		secret:      secret,
		redirectURI: redirectURI,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AuthURL builds the authorization redirect for the moderator's browser.
func (c *Client) AuthURL(state string) string {
	q := url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"scope":         {authScopes},
		"redirect_uri":  {c.redirectURI},
		"state":         {state},
	}
	return c.accountsURL + "/authorize?" + q.Encode()
}

// Tokens is the result of a code exchange or refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (Tokens, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURI},
	}
	return c.token(ctx, form)
}

// Refresh trades a refresh token for a fresh access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return c.token(ctx, form)
}

func (c *Client) token(ctx context.Context, form url.Values) (Tokens, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Tokens{}, err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Tokens{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Tokens{}, fmt.Errorf("token request: status %d", resp.StatusCode)
	}

	var t Tokens
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return Tokens{}, fmt.Errorf("decoding token response: %w", err)
	}
	return t, nil
}

// User is the subset of the profile the game cares about.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Product     string `json:"product"`
}

// IsPremium reports whether the account can drive a Connect device.
func (u User) IsPremium() bool { return u.Product == "premium" }

// CurrentUser fetches the profile behind an access token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (User, error) {
	var u User
	if err := c.getJSON(ctx, accessToken, "/v1/me", &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Track is a flattened search result.
type Track struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	AlbumImage string   `json:"albumImage,omitempty"`
	PreviewURL string   `json:"previewUrl,omitempty"`
	DurationMs int      `json:"durationMs"`
}

// Search runs a free-text track search on behalf of the given token.
func (c *Client) Search(ctx context.Context, accessToken, query string, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{
		"q":     {query},
		"type":  {"track"},
		"limit": {strconv.Itoa(limit)},
	}

	var raw struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				URI     string `json:"uri"`
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
				PreviewURL string `json:"preview_url"`
				DurationMs int    `json:"duration_ms"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := c.getJSON(ctx, accessToken, "/v1/search?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(raw.Tracks.Items))
	for _, it := range raw.Tracks.Items {
		t := Track{
			ID:         it.ID,
			URI:        it.URI,
			Name:       it.Name,
			PreviewURL: it.PreviewURL,
			DurationMs: it.DurationMs,
		}
		for _, a := range it.Artists {
			t.Artists = append(t.Artists, a.Name)
		}
		if len(it.Album.Images) > 0 {
			t.AlbumImage = it.Album.Images[0].URL
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func (c *Client) getJSON(ctx context.Context, accessToken, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
