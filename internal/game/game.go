// Package game defines the core domain types for a music quiz board —
// categories, questions, players — plus the runtime session that drives
// one game at a time. Everything here is pure Go with zero external
// dependencies.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const (
	// CategoriesPerBoard and QuestionsPerCategory describe the canonical
	// 6x5 board produced by NewEmptyGame. Completion detection always
	// counts the live board, so partially authored games still work.
	CategoriesPerBoard   = 6
	QuestionsPerCategory = 5

	MinPlayers = 2
	MaxPlayers = 4
)

// PointValues maps a question's row index to its point value.
var PointValues = [QuestionsPerCategory]int{100, 200, 300, 400, 500}

// PlayerColors are the display colors handed out in team-slot order.
var PlayerColors = [MaxPlayers]string{
	"#3b82f6", // blue
	"#ef4444", // red
	"#10b981", // green
	"#f59e0b", // amber
}

// TeamEmojis are the avatar tokens handed out in team-slot order. The
// first two belong to the default teams; added teams start at slot 2.
var TeamEmojis = [CategoriesPerBoard]string{"🎸", "🎤", "🎧", "🥁", "🎹", "🎺"}

// QuestionType says how a question is presented to the room.
type QuestionType string

const (
	TypeText  QuestionType = "text"  // question text only
	TypeAudio QuestionType = "audio" // music clip only
	TypeBoth  QuestionType = "both"  // clip plus question text
)

// HasAudio reports whether a question of this type plays a clip.
func (t QuestionType) HasAudio() bool {
	return t == TypeAudio || t == TypeBoth
}

// DefaultClipDurationMs is used when a question doesn't set its own
// clip window (30s, the length of a streaming preview).
const DefaultClipDurationMs = 30000

// Key identifies a question by its position on the board.
type Key struct {
	Category int `json:"categoryIndex"`
	Question int `json:"questionIndex"`
}

// Media holds the external references needed to play a question's clip.
// A question may carry a public video id, a streaming track, or both;
// MediaID resolves in that order.
type Media struct {
	VideoID    string `json:"videoId,omitempty"`
	VideoURL   string `json:"videoUrl,omitempty"`
	TrackID    string `json:"trackId,omitempty"`
	TrackURI   string `json:"trackUri,omitempty"`
	TrackName  string `json:"trackName,omitempty"`
	ArtistName string `json:"artistName,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	AlbumImage string `json:"albumImage,omitempty"`
	StartMs    int    `json:"startMs,omitempty"`
	DurationMs int    `json:"durationMs,omitempty"`
}

// MediaID returns the opaque reference used to locate the clip, or ""
// when the media is unresolvable.
func (m Media) MediaID() string {
	if m.VideoID != "" {
		return m.VideoID
	}
	return m.TrackID
}

// ClipDurationMs returns the clip window length, defaulted when unset.
func (m Media) ClipDurationMs() int {
	if m.DurationMs > 0 {
		return m.DurationMs
	}
	return DefaultClipDurationMs
}

type Question struct {
	ID       string       `json:"id"`
	Key      Key          `json:"key"`
	Points   int          `json:"points"`
	Type     QuestionType `json:"type"`
	Text     string       `json:"questionText"`
	Answer   string       `json:"answer"`
	Media    Media        `json:"media"`
	Answered bool         `json:"isAnswered"`
}

type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Color string `json:"color"`
	Emoji string `json:"emoji,omitempty"`
}

// Game is the unit of save, load, and reset.
type Game struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Categories  []Category `json:"categories"`
	Players     []Player   `json:"players"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TotalQuestions counts the live board rather than assuming 6x5.
func (g *Game) TotalQuestions() int {
	n := 0
	for _, c := range g.Categories {
		n += len(c.Questions)
	}
	return n
}

// QuestionAt returns the question at k, or nil when k is off the board.
func (g *Game) QuestionAt(k Key) *Question {
	if k.Category < 0 || k.Category >= len(g.Categories) {
		return nil
	}
	c := &g.Categories[k.Category]
	if k.Question < 0 || k.Question >= len(c.Questions) {
		return nil
	}
	return &c.Questions[k.Question]
}

// PlayerByID returns the index of the player with the given id, or -1.
func (g *Game) PlayerByID(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants an authored game must hold
// before it can be saved or loaded: a 6-category board of 5 questions
// each, 2-4 players, point values aligned with row index, and a
// resolvable media reference on every audio-bearing question.
func (g *Game) Validate() error {
	if len(g.Categories) != CategoriesPerBoard {
		return fmt.Errorf("game has %d categories, want %d", len(g.Categories), CategoriesPerBoard)
	}
	if len(g.Players) < MinPlayers || len(g.Players) > MaxPlayers {
		return fmt.Errorf("game has %d players, want %d-%d", len(g.Players), MinPlayers, MaxPlayers)
	}
	for ci, c := range g.Categories {
		if len(c.Questions) != QuestionsPerCategory {
			return fmt.Errorf("category %d has %d questions, want %d", ci, len(c.Questions), QuestionsPerCategory)
		}
		for qi, q := range c.Questions {
			if q.Key != (Key{Category: ci, Question: qi}) {
				return fmt.Errorf("question at (%d,%d) carries key (%d,%d)", ci, qi, q.Key.Category, q.Key.Question)
			}
			if q.Points != PointValues[qi] {
				return fmt.Errorf("question at (%d,%d) worth %d points, want %d", ci, qi, q.Points, PointValues[qi])
			}
			if q.Type.HasAudio() && q.Media.MediaID() == "" {
				return fmt.Errorf("question at (%d,%d) is type %q but has no media reference", ci, qi, q.Type)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	out := *g
	out.Categories = make([]Category, len(g.Categories))
	for i, c := range g.Categories {
		out.Categories[i] = c
		out.Categories[i].Questions = append([]Question(nil), c.Questions...)
	}
	out.Players = append([]Player(nil), g.Players...)
	return &out
}

// NewEmptyQuestion creates a blank text question for the given board slot.
func NewEmptyQuestion(categoryIndex, questionIndex int) Question {
	return Question{
		ID:     fmt.Sprintf("q-%d-%d", categoryIndex, questionIndex),
		Key:    Key{Category: categoryIndex, Question: questionIndex},
		Points: PointValues[questionIndex],
		Type:   TypeText,
	}
}

// NewEmptyCategory creates an unnamed category with its 5 blank questions.
func NewEmptyCategory(index int) Category {
	c := Category{
		ID:        fmt.Sprintf("cat-%d", index),
		Questions: make([]Question, QuestionsPerCategory),
	}
	for qi := range c.Questions {
		c.Questions[qi] = NewEmptyQuestion(index, qi)
	}
	return c
}

// NewEmptyGame creates a blank 6x5 board with the two default teams.
func NewEmptyGame() *Game {
	now := time.Now().UTC()
	g := &Game{
		ID:         NewID(),
		Categories: make([]Category, CategoriesPerBoard),
		Players: []Player{
			{ID: NewID(), Name: "Team 1", Color: PlayerColors[0], Emoji: TeamEmojis[0]},
			{ID: NewID(), Name: "Team 2", Color: PlayerColors[1], Emoji: TeamEmojis[1]},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for ci := range g.Categories {
		g.Categories[ci] = NewEmptyCategory(ci)
	}
	return g
}

// NewID returns a random 128-bit hex identifier.
func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ErrInvalidVideoURL is returned for links that don't point at a video.
var ErrInvalidVideoURL = errors.New("invalid video url")
