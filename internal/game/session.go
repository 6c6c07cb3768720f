package game

import (
	"errors"
	"sync"
)

// Session op failures. Every failed op leaves the session untouched;
// callers that want the original "silent no-op" behavior just drop the
// error.
var (
	ErrNoGame           = errors.New("no game loaded")
	ErrNoSuchQuestion   = errors.New("no question at that position")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrNoActiveQuestion = errors.New("no active question")
	ErrPanelClosed      = errors.New("question panel is not open")
	ErrPlayerLimit      = errors.New("player count limit reached")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrBadPlayerIndex   = errors.New("player index out of range")
	ErrBadPlayerCount   = errors.New("player count out of range")
)

// Outcome is the judgment recorded for the most recent answer.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Snapshot is an immutable copy of the session published after every
// mutation. Consumers compare Version to detect updates; the contained
// Game is a deep copy and never aliases live state.
type Snapshot struct {
	Version            int64     `json:"version"`
	Game               *Game     `json:"game"`
	AnsweredCount      int       `json:"answeredCount"`
	ActiveQuestion     *Question `json:"activeQuestion,omitempty"`
	PanelOpen          bool      `json:"panelOpen"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	LastOutcome        Outcome   `json:"lastOutcome,omitempty"`
	CelebrationPending bool      `json:"celebrationPending"`
	Complete           bool      `json:"complete"`
}

// Session owns the single live game. All mutations run under one lock
// and operate on state the session exclusively owns; readers only ever
// see deep-copied snapshots.
type Session struct {
	mu          sync.Mutex
	game        *Game
	answered    map[Key]struct{}
	active      *Question
	panelOpen   bool
	current     int
	lastOutcome Outcome
	celebration bool
	version     int64
}

func NewSession() *Session {
	return &Session{answered: make(map[Key]struct{})}
}

// Snapshot returns a deep copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:            s.version,
		Game:               s.game.Clone(),
		AnsweredCount:      len(s.answered),
		PanelOpen:          s.panelOpen,
		CurrentPlayerIndex: s.current,
		LastOutcome:        s.lastOutcome,
		CelebrationPending: s.celebration,
	}
	if s.active != nil {
		q := *s.active
		snap.ActiveQuestion = &q
	}
	if s.game != nil {
		snap.Complete = IsComplete(len(s.answered), s.game.TotalQuestions())
	}
	return snap
}

// SetGame replaces the current game and clears all runtime state.
func (s *Session) SetGame(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = g.Clone()
	s.answered = make(map[Key]struct{})
	for _, c := range s.game.Categories {
		for _, q := range c.Questions {
			if q.Answered {
				s.answered[q.Key] = struct{}{}
			}
		}
	}
	s.active = nil
	s.panelOpen = false
	s.current = 0
	s.lastOutcome = OutcomeNone
	s.version++
}

// NewGame loads a blank board with the two default teams.
func (s *Session) NewGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = NewEmptyGame()
	s.answered = make(map[Key]struct{})
	s.active = nil
	s.panelOpen = false
	s.current = 0
	s.lastOutcome = OutcomeNone
	s.celebration = false
	s.version++
}

// SelectQuestion opens the question panel for the question at k.
// Already-answered questions are rejected without opening the panel or
// touching the turn order.
func (s *Session) SelectQuestion(k Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	q := s.game.QuestionAt(k)
	if q == nil {
		return ErrNoSuchQuestion
	}
	if q.Answered {
		return ErrAlreadyAnswered
	}
	sel := *q
	s.active = &sel
	s.panelOpen = true
	s.lastOutcome = OutcomeNone
	s.version++
	return nil
}

// MarkCorrect credits the active question's points to the current
// player and marks the question answered.
func (s *Session) MarkCorrect() error { return s.judge(true) }

// MarkWrong debits the active question's points from the current
// player and marks the question answered. Scores may go negative.
func (s *Session) MarkWrong() error { return s.judge(false) }

func (s *Session) judge(correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	if s.active == nil {
		return ErrNoActiveQuestion
	}

	p := &s.game.Players[s.current]
	if correct {
		p.Score += s.active.Points
		s.lastOutcome = OutcomeCorrect
	} else {
		p.Score -= s.active.Points
		s.lastOutcome = OutcomeIncorrect
	}
	s.celebration = correct

	if q := s.game.QuestionAt(s.active.Key); q != nil {
		q.Answered = true
	}
	s.active.Answered = true
	s.answered[s.active.Key] = struct{}{}
	s.version++
	return nil
}

// CloseQuestion dismisses the panel and passes the turn to the next
// player. Rotation is unconditional: the turn advances whether the
// answer was judged correct, wrong, or not at all.
func (s *Session) CloseQuestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	if !s.panelOpen {
		return ErrPanelClosed
	}
	s.active = nil
	s.panelOpen = false
	s.lastOutcome = OutcomeNone
	s.current = (s.current + 1) % len(s.game.Players)
	s.version++
	return nil
}

// ResetGame clears every answered flag and score while keeping the
// board content and player identities exactly as they are.
func (s *Session) ResetGame() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	for ci := range s.game.Categories {
		qs := s.game.Categories[ci].Questions
		for qi := range qs {
			qs[qi].Answered = false
		}
	}
	for pi := range s.game.Players {
		s.game.Players[pi].Score = 0
	}
	s.answered = make(map[Key]struct{})
	s.active = nil
	s.panelOpen = false
	s.current = 0
	s.lastOutcome = OutcomeNone
	s.celebration = false
	s.version++
	return nil
}

// AddPlayer appends a team with the next free color and emoji slot.
func (s *Session) AddPlayer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	n := len(s.game.Players)
	if n >= MaxPlayers {
		return ErrPlayerLimit
	}
	s.game.Players = append(s.game.Players, Player{
		ID:    NewID(),
		Name:  name,
		Color: PlayerColors[n],
		// Slots 0 and 1 belong to the default teams.
		Emoji: TeamEmojis[n+2],
	})
	s.version++
	return nil
}

// RemovePlayer drops the matching team and resets the turn to the
// first player, since the ordering shifted under the old index.
func (s *Session) RemovePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	if len(s.game.Players) <= MinPlayers {
		return ErrPlayerLimit
	}
	i := s.game.PlayerByID(id)
	if i < 0 {
		return ErrPlayerNotFound
	}
	s.game.Players = append(s.game.Players[:i], s.game.Players[i+1:]...)
	s.current = 0
	s.version++
	return nil
}

// UpdatePlayerName renames the matching team.
func (s *Session) UpdatePlayerName(id, name string) error {
	return s.updatePlayer(id, func(p *Player) { p.Name = name })
}

// UpdatePlayerEmoji changes the matching team's avatar.
func (s *Session) UpdatePlayerEmoji(id, emoji string) error {
	return s.updatePlayer(id, func(p *Player) { p.Emoji = emoji })
}

func (s *Session) updatePlayer(id string, apply func(*Player)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	i := s.game.PlayerByID(id)
	if i < 0 {
		return ErrPlayerNotFound
	}
	apply(&s.game.Players[i])
	s.version++
	return nil
}

// SetPlayers replaces the whole team list (game setup flow).
func (s *Session) SetPlayers(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return ErrBadPlayerCount
	}
	s.game.Players = append([]Player(nil), players...)
	if s.current >= len(s.game.Players) {
		s.current = 0
	}
	s.version++
	return nil
}

// SetCurrentPlayer hands the turn to the player at index.
func (s *Session) SetCurrentPlayer(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	if index < 0 || index >= len(s.game.Players) {
		return ErrBadPlayerIndex
	}
	s.current = index
	s.version++
	return nil
}

// NextPlayer advances the turn without closing a question.
func (s *Session) NextPlayer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return ErrNoGame
	}
	s.current = (s.current + 1) % len(s.game.Players)
	s.version++
	return nil
}

// ClearCelebration acknowledges the pending celebration.
func (s *Session) ClearCelebration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.celebration {
		return
	}
	s.celebration = false
	s.version++
}
