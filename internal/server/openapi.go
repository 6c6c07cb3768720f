package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
	"github.com/emmarodam/music-quiz-jeopardy/internal/spotify"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Music Quiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the music quiz board game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the full session snapshot: board, scores, turn, active question, derived ranking.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream republishing the session snapshot after every mutation.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/game/select
	postSelect, _ := r.NewOperationContext(http.MethodPost, "/api/game/select")
	postSelect.SetSummary("Select a question")
	postSelect.SetDescription("Opens the question panel. Rejected if the question is already answered or off the board.")
	postSelect.AddReqStructure(SelectRequest{})
	postSelect.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSelect)

	// POST /api/game/correct
	postCorrect, _ := r.NewOperationContext(http.MethodPost, "/api/game/correct")
	postCorrect.SetSummary("Mark answer correct")
	postCorrect.SetDescription("Credits the active question's points to the current team and marks the question answered.")
	postCorrect.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postCorrect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postCorrect)

	// POST /api/game/wrong
	postWrong, _ := r.NewOperationContext(http.MethodPost, "/api/game/wrong")
	postWrong.SetSummary("Mark answer wrong")
	postWrong.SetDescription("Debits the active question's points from the current team and marks the question answered.")
	postWrong.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postWrong.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postWrong)

	// POST /api/game/close
	postClose, _ := r.NewOperationContext(http.MethodPost, "/api/game/close")
	postClose.SetSummary("Close the question panel")
	postClose.SetDescription("Dismisses the panel and passes the turn to the next team. Rotation is unconditional by rule.")
	postClose.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postClose.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postClose)

	// POST /api/game/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/game/reset")
	postReset.SetSummary("Reset the game")
	postReset.SetDescription("Clears every answered flag and score while keeping board content and team identities.")
	postReset.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReset)

	// POST /api/game/new
	postNew, _ := r.NewOperationContext(http.MethodPost, "/api/game/new")
	postNew.SetSummary("Start a blank game")
	postNew.SetDescription("Loads an empty 6x5 board with the two default teams.")
	postNew.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postNew)

	// POST /api/game/load/{catalogID}
	postLoad, _ := r.NewOperationContext(http.MethodPost, "/api/game/load/{catalogID}")
	postLoad.SetSummary("Load a catalog")
	postLoad.SetDescription("Replaces the current game with a saved catalog and resets all runtime state.")
	postLoad.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLoad.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postLoad)

	// POST /api/game/turn
	postTurn, _ := r.NewOperationContext(http.MethodPost, "/api/game/turn")
	postTurn.SetSummary("Change the turn")
	postTurn.SetDescription("Hands the turn to a specific team, or the next team in order when no index is given.")
	postTurn.AddReqStructure(TurnRequest{})
	postTurn.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTurn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTurn)

	// POST /api/game/players
	postPlayer, _ := r.NewOperationContext(http.MethodPost, "/api/game/players")
	postPlayer.SetSummary("Add a team")
	postPlayer.SetDescription("Appends a team with the next free color and emoji slot. Capped at 4 teams.")
	postPlayer.AddReqStructure(AddPlayerRequest{})
	postPlayer.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postPlayer)

	// PATCH /api/game/players/{playerID}
	patchPlayer, _ := r.NewOperationContext(http.MethodPatch, "/api/game/players/{playerID}")
	patchPlayer.SetSummary("Update a team")
	patchPlayer.SetDescription("Updates a team's name or avatar.")
	patchPlayer.AddReqStructure(UpdatePlayerRequest{})
	patchPlayer.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	patchPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(patchPlayer)

	// DELETE /api/game/players/{playerID}
	deletePlayer, _ := r.NewOperationContext(http.MethodDelete, "/api/game/players/{playerID}")
	deletePlayer.SetSummary("Remove a team")
	deletePlayer.SetDescription("Removes a team and resets the turn to the first team. Blocked below 2 teams.")
	deletePlayer.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deletePlayer)

	// POST /api/game/playback/load
	postClip, _ := r.NewOperationContext(http.MethodPost, "/api/game/playback/load")
	postClip.SetSummary("Load the active question's clip")
	postClip.SetDescription("Acquires a playback widget for the active question. Provider 'clip' mirrors an embedded widget; 'spotify' drives a Connect device and needs a premium bearer token.")
	postClip.AddReqStructure(LoadClipRequest{})
	postClip.AddRespStructure(playback.Status{}, openapi.WithHTTPStatus(http.StatusOK))
	postClip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postClip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postClip)

	// GET /api/game/playback
	getClip, _ := r.NewOperationContext(http.MethodGet, "/api/game/playback")
	getClip.SetSummary("Playback status")
	getClip.AddRespStructure(playback.Status{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getClip)

	for _, cmd := range []string{"play", "pause", "replay"} {
		op, _ := r.NewOperationContext(http.MethodPost, "/api/game/playback/"+cmd)
		op.SetSummary("Playback " + cmd)
		op.SetDescription("Ignored until the provider signals the widget is ready.")
		op.AddRespStructure(playback.Status{}, openapi.WithHTTPStatus(http.StatusOK))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
		_ = r.AddOperation(op)
	}

	// GET /api/catalogs
	listCatalogs, _ := r.NewOperationContext(http.MethodGet, "/api/catalogs")
	listCatalogs.SetSummary("List catalogs")
	listCatalogs.AddRespStructure([]CatalogSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listCatalogs)

	// POST /api/catalogs
	createCatalog, _ := r.NewOperationContext(http.MethodPost, "/api/catalogs")
	createCatalog.SetSummary("Save a catalog")
	createCatalog.SetDescription("Stores an authored game. Structural problems are rejected wholesale, never partially applied.")
	createCatalog.AddReqStructure(game.Game{})
	createCatalog.AddRespStructure(game.Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	createCatalog.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createCatalog)

	// GET /api/catalogs/{catalogID}
	getCatalog, _ := r.NewOperationContext(http.MethodGet, "/api/catalogs/{catalogID}")
	getCatalog.SetSummary("Get a catalog")
	getCatalog.AddRespStructure(game.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	getCatalog.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getCatalog)

	// DELETE /api/catalogs/{catalogID}
	deleteCatalog, _ := r.NewOperationContext(http.MethodDelete, "/api/catalogs/{catalogID}")
	deleteCatalog.SetSummary("Delete a catalog")
	deleteCatalog.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteCatalog.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteCatalog)

	// GET /api/spotify/search
	search, _ := r.NewOperationContext(http.MethodGet, "/api/spotify/search")
	search.SetSummary("Search tracks")
	search.SetDescription("Free-text track search on behalf of the caller's bearer token. Used by the authoring flow.")
	search.AddRespStructure(map[string][]spotify.Track{}, openapi.WithHTTPStatus(http.StatusOK))
	search.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	search.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(search)

	// GET /api/spotify/me
	me, _ := r.NewOperationContext(http.MethodGet, "/api/spotify/me")
	me.SetSummary("Current streaming account")
	me.SetDescription("Returns the profile behind the bearer token; the premium flag picks the playback provider.")
	me.AddRespStructure(SpotifyMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	me.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(me)

	// POST /api/moderator/login
	login, _ := r.NewOperationContext(http.MethodPost, "/api/moderator/login")
	login.SetSummary("Moderator login")
	login.SetDescription("Authenticates with the moderator password and sets the moderator_session cookie.")
	login.AddReqStructure(ModeratorLoginRequest{})
	login.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	login.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(login)

	// POST /api/moderator/logout
	logout, _ := r.NewOperationContext(http.MethodPost, "/api/moderator/logout")
	logout.SetSummary("Moderator logout")
	logout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(logout)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
