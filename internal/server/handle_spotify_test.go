package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/emmarodam/music-quiz-jeopardy/internal/spotify"
)

// fakeSpotify serves just enough of the accounts and web API for the
// auth callback and search handlers.
func fakeSpotify(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.ParseForm()
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at", "refresh_token": "rt", "expires_in": 3600,
		})
	})
	mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "u1", "display_name": "DJ Quiz", "product": "premium",
		})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte(`{"tracks":{"items":[{"id":"t1","uri":"spotify:track:t1","name":"Africa","artists":[{"name":"Toto"}],"album":{"images":[]},"duration_ms":295000}]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func spotifyRouter(t *testing.T) *chi.Mux {
	t.Helper()
	srv := fakeSpotify(t)

	e := testEnv(t)
	e.AppURL = "http://app.local"
	e.Spotify = spotify.NewClient("id", "secret", "http://app.local/api/spotify/callback",
		spotify.WithBaseURLs(srv.URL, srv.URL))

	r := chi.NewRouter()
	addRoutes(r, e)
	return r
}

func TestSpotifyLoginRedirects(t *testing.T) {
	r := spotifyRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/spotify/login", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "/authorize?") || !strings.Contains(loc, "client_id=id") {
		t.Errorf("location = %q", loc)
	}
}

func TestSpotifyCallbackCarriesTokensInFragment(t *testing.T) {
	r := spotifyRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/spotify/callback?code=good-code&state=s", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	loc := w.Header().Get("Location")
	base, frag, ok := strings.Cut(loc, "#")
	if !ok {
		t.Fatalf("location %q has no fragment", loc)
	}
	if base != "http://app.local/auth/spotify/success" {
		t.Errorf("redirect base = %q", base)
	}
	vals, err := url.ParseQuery(frag)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	if vals.Get("access_token") != "at" || vals.Get("refresh_token") != "rt" {
		t.Errorf("fragment = %v", vals)
	}
	if vals.Get("is_premium") != "true" {
		t.Errorf("is_premium = %q", vals.Get("is_premium"))
	}
}

func TestSpotifyCallbackDenied(t *testing.T) {
	r := spotifyRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/spotify/callback?error=access_denied", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=spotify_auth_denied") {
		t.Errorf("location = %q", loc)
	}
}

func TestSpotifyMeRequiresToken(t *testing.T) {
	r := spotifyRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/spotify/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/spotify/me", nil)
	req.Header.Set("Authorization", "Bearer at")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var me SpotifyMeResponse
	if err := json.NewDecoder(rec.Body).Decode(&me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.UserID != "u1" || !me.IsPremium {
		t.Errorf("me = %+v", me)
	}
}

func TestSpotifySearchOverHTTP(t *testing.T) {
	r := spotifyRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/spotify/search?q=africa", nil)
	req.Header.Set("Authorization", "Bearer at")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Tracks []spotify.Track `json:"tracks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tracks) != 1 || resp.Tracks[0].Name != "Africa" {
		t.Errorf("tracks = %+v", resp.Tracks)
	}

	// Missing query is a client error.
	w := doJSON(t, r, http.MethodGet, "/api/spotify/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSpotifyEndpointsWithoutConfig(t *testing.T) {
	r, _ := gameRouter(t)

	for _, path := range []string{"/api/spotify/login", "/api/spotify/me", "/api/spotify/search?q=x"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", path, w.Code)
		}
	}
}
