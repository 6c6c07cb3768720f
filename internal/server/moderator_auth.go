package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const moderatorCookieName = "moderator_session"

var errBadPassword = errors.New("invalid password")

// ModeratorGate holds the bcrypt hash of the moderator password and
// the in-memory sessions minted against it. A nil gate means judging
// is open to anyone on the host, which is the usual party setup.
type ModeratorGate struct {
	hash []byte

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewModeratorGate hashes the password once at startup. Empty password
// returns a nil gate.
func NewModeratorGate(password string) (*ModeratorGate, error) {
	if password == "" {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &ModeratorGate{
		hash:     hash,
		sessions: make(map[string]time.Time),
	}, nil
}

// Login validates the password and mints a session token.
func (g *ModeratorGate) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return "", errBadPassword
	}
	b := make([]byte, 16)
	rand.Read(b)
	token := hex.EncodeToString(b)

	g.mu.Lock()
	g.sessions[token] = time.Now()
	g.mu.Unlock()
	return token, nil
}

func (g *ModeratorGate) Valid(token string) bool {
	g.mu.Lock()
	_, ok := g.sessions[token]
	g.mu.Unlock()
	return ok
}

func (g *ModeratorGate) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}

// moderatorMiddleware guards mutating routes when a gate is configured.
func moderatorMiddleware(gate *ModeratorGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate != nil {
				cookie, err := r.Cookie(moderatorCookieName)
				if err != nil || !gate.Valid(cookie.Value) {
					writeError(w, http.StatusUnauthorized, "not authenticated")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ModeratorLoginRequest struct {
	Password string `json:"password"`
}

func handleModeratorLogin(gate *ModeratorGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gate == nil {
			writeJSON(w, http.StatusOK, map[string]bool{"required": false})
			return
		}

		var req ModeratorLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := gate.Login(req.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     moderatorCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(12 * time.Hour / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"required": true})
	}
}

func handleModeratorLogout(gate *ModeratorGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gate != nil {
			if cookie, err := r.Cookie(moderatorCookieName); err == nil {
				gate.Logout(cookie.Value)
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     moderatorCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusOK)
	}
}
