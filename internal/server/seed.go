package server

import (
	"context"
	"log/slog"

	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
)

// demoQuestion is a row in the seed table: question text, answer, and
// an optional video id that turns the question into an audio one.
type demoQuestion struct {
	text    string
	answer  string
	videoID string
}

var demoBoard = []struct {
	name      string
	questions [game.QuestionsPerCategory]demoQuestion
}{
	{"80s Hits", [...]demoQuestion{
		{"", "Rick Astley - Never Gonna Give You Up", "dQw4w9WgXcQ"},
		{"", "a-ha - Take On Me", "djV11Xbc914"},
		{"", "Toto - Africa", "FTQbiNvZqaY"},
		{"Which 1983 hit opens with a gated-reverb drum fill?", "Phil Collins - In the Air Tonight", ""},
		{"", "Queen - Under Pressure", "a01QQZyl-_I"},
	}},
	{"Movie Themes", [...]demoQuestion{
		{"Which film features a shark hunted to a two-note motif?", "Jaws", ""},
		{"", "Star Wars - Main Title", "_D0ZQPqeJkk"},
		{"", "The Good, the Bad and the Ugly", "h1PfrmCGFnk"},
		{"Which composer scored both Inception and Interstellar?", "Hans Zimmer", ""},
		{"", "Pirates of the Caribbean - He's a Pirate", "27mB8verLK8"},
	}},
	{"One-Hit Wonders", [...]demoQuestion{
		{"", "Los del Rio - Macarena", "zWaymcVmJ-A"},
		{"", "Chumbawamba - Tubthumping", "2H5uWRjFsGc"},
		{"Which 1997 one-hit wonder told you to wear sunscreen?", "Baz Luhrmann", ""},
		{"", "Eiffel 65 - Blue (Da Ba Dee)", "zA52uNzx7Y4"},
		{"", "Crazy Town - Butterfly", "t2WpWrlnqq8"},
	}},
	{"Guess the Intro", [...]demoQuestion{
		{"", "Michael Jackson - Billie Jean", "Zi_XLOBDo_Y"},
		{"", "Nirvana - Smells Like Teen Spirit", "hTWKbfoikeg"},
		{"", "Survivor - Eye of the Tiger", "btPJPFnesV4"},
		{"", "Guns N' Roses - Sweet Child O' Mine", "1w7OgIMMRc4"},
		{"", "Deep Purple - Smoke on the Water", "zUwEIt9ez7M"},
	}},
	{"Eurovision", [...]demoQuestion{
		{"Which Swedish group won in 1974 with Waterloo?", "ABBA", ""},
		{"", "Loreen - Euphoria", "Pfo-8z86x80"},
		{"Which country has the most Eurovision wins?", "Ireland", ""},
		{"", "Maneskin - Zitti e Buoni", "RVH5dn1cxAQ"},
		{"", "Alexander Rybak - Fairytale", "YtIvzlWPJT4"},
	}},
	{"Cover Versions", [...]demoQuestion{
		{"Who originally recorded Hurt, later covered by Johnny Cash?", "Nine Inch Nails", ""},
		{"", "Jeff Buckley - Hallelujah", "y8AWFf7EAc4"},
		{"Whose song did Whitney Houston cover as I Will Always Love You?", "Dolly Parton", ""},
		{"", "Joe Cocker - With a Little Help from My Friends", "YYjQHKhCTGs"},
		{"", "Disturbed - The Sound of Silence", "u9Dg-g7t2l4"},
	}},
}

// newDemoGame builds the demo catalog: a full 6x5 board mixing audio
// and text questions, playable with the two default teams.
func newDemoGame() *game.Game {
	g := game.NewEmptyGame()
	g.Name = "Friday Night Music Quiz"
	g.Description = "A ready-to-play demo board. Replace it with your own."

	for ci := range demoBoard {
		g.Categories[ci].Name = demoBoard[ci].name
		for qi, dq := range demoBoard[ci].questions {
			q := &g.Categories[ci].Questions[qi]
			q.Text = dq.text
			q.Answer = dq.answer
			if dq.videoID != "" {
				q.Media.VideoID = dq.videoID
				q.Media.VideoURL = "https://www.youtube.com/watch?v=" + dq.videoID
				if dq.text != "" {
					q.Type = game.TypeBoth
				} else {
					q.Type = game.TypeAudio
				}
			}
		}
	}
	return g
}

// SeedDemo saves the demo catalog if the store is empty. Idempotent.
func SeedDemo(ctx context.Context, logger *slog.Logger, catalogs *CatalogStore) error {
	existing, err := catalogs.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	g := newDemoGame()
	if err := g.Validate(); err != nil {
		return err
	}
	if err := catalogs.Save(ctx, g); err != nil {
		return err
	}

	logger.Info("demo catalog created", "name", g.Name)
	return nil
}
