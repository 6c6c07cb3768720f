package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
)

func handleListCatalogs(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalogs, err := e.Catalogs.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if catalogs == nil {
			catalogs = []CatalogSummary{}
		}
		writeJSON(w, http.StatusOK, catalogs)
	}
}

// handleSaveCatalog stores an authored game. Structural problems —
// wrong board shape, misaligned points, an audio question without a
// media reference — are rejected wholesale; nothing is partially
// applied.
func handleSaveCatalog(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var g game.Game
		if err := readJSON(r, &g); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		g.Name = strings.TrimSpace(g.Name)
		if g.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if g.ID == "" {
			g.ID = game.NewID()
		}
		if err := g.NormalizeMedia(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := g.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := e.Catalogs.Save(r.Context(), &g); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func handleGetCatalog(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := e.Catalogs.Get(r.Context(), chi.URLParam(r, "catalogID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "catalog not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleDeleteCatalog(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := e.Catalogs.Delete(r.Context(), chi.URLParam(r, "catalogID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "catalog not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
