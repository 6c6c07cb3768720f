package game

import (
	"fmt"
	"regexp"
)

var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&\n?#]+)`),
}

var bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ParseVideoURL extracts the video id from a watch, short-link, embed,
// or shorts URL. A bare 11-character id is accepted as-is. Anything
// else fails with ErrInvalidVideoURL; nothing is partially applied.
func ParseVideoURL(raw string) (string, error) {
	for _, p := range videoURLPatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
	}
	if bareVideoID.MatchString(raw) {
		return raw, nil
	}
	return "", ErrInvalidVideoURL
}

// NormalizeMedia derives each question's video id from its authored
// URL. An unparseable URL rejects the whole game, so a catalog is
// never saved with a video reference that cannot play.
func (g *Game) NormalizeMedia() error {
	for ci := range g.Categories {
		for qi := range g.Categories[ci].Questions {
			m := &g.Categories[ci].Questions[qi].Media
			if m.VideoURL == "" {
				continue
			}
			id, err := ParseVideoURL(m.VideoURL)
			if err != nil {
				return fmt.Errorf("question at (%d,%d): %w", ci, qi, err)
			}
			m.VideoID = id
		}
	}
	return nil
}
