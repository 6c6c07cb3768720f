package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strconv"
)

func handleSpotifyLogin(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Spotify == nil {
			writeError(w, http.StatusServiceUnavailable, "spotify is not configured")
			return
		}
		http.Redirect(w, r, e.Spotify.AuthURL(newState()), http.StatusTemporaryRedirect)
	}
}

// handleSpotifyCallback finishes the code exchange and bounces the
// browser back to the app with tokens in the URL fragment, so they
// never hit server logs or intermediaries.
func handleSpotifyCallback(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Spotify == nil {
			writeError(w, http.StatusServiceUnavailable, "spotify is not configured")
			return
		}

		q := r.URL.Query()
		if errParam := q.Get("error"); errParam != "" {
			http.Redirect(w, r, e.AppURL+"?error=spotify_auth_denied", http.StatusTemporaryRedirect)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Redirect(w, r, e.AppURL+"?error=no_code", http.StatusTemporaryRedirect)
			return
		}

		tokens, err := e.Spotify.Exchange(r.Context(), code)
		if err != nil {
			e.Logger.Warn("token exchange failed", "error", err)
			http.Redirect(w, r, e.AppURL+"?error=token_exchange_failed", http.StatusTemporaryRedirect)
			return
		}

		user, err := e.Spotify.CurrentUser(r.Context(), tokens.AccessToken)
		if err != nil {
			e.Logger.Warn("profile lookup failed", "error", err)
			http.Redirect(w, r, e.AppURL+"?error=token_exchange_failed", http.StatusTemporaryRedirect)
			return
		}

		frag := url.Values{
			"access_token":  {tokens.AccessToken},
			"refresh_token": {tokens.RefreshToken},
			"expires_in":    {strconv.Itoa(tokens.ExpiresIn)},
			"user_id":       {user.ID},
			"user_name":     {user.DisplayName},
			"is_premium":    {strconv.FormatBool(user.IsPremium())},
		}
		http.Redirect(w, r, e.AppURL+"/auth/spotify/success#"+frag.Encode(), http.StatusTemporaryRedirect)
	}
}

// SpotifyMeResponse is what the game actually consumes from the
// profile: the premium flag decides the playback adapter variant.
type SpotifyMeResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	IsPremium   bool   `json:"isPremium"`
}

func handleSpotifyMe(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Spotify == nil {
			writeError(w, http.StatusServiceUnavailable, "spotify is not configured")
			return
		}
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "bearer token required")
			return
		}

		user, err := e.Spotify.CurrentUser(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusBadGateway, "profile lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, SpotifyMeResponse{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
			IsPremium:   user.IsPremium(),
		})
	}
}

func handleSpotifySearch(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Spotify == nil {
			writeError(w, http.StatusServiceUnavailable, "spotify is not configured")
			return
		}
		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "q parameter is required")
			return
		}
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "bearer token required")
			return
		}

		tracks, err := e.Spotify.Search(r.Context(), token, query, 10)
		if err != nil {
			e.Logger.Warn("track search failed", "error", err)
			writeError(w, http.StatusBadGateway, "search failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
	}
}

func newState() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
