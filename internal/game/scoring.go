package game

import "sort"

// IsComplete reports whether every question on the board has been
// answered. An empty board is never complete.
func IsComplete(answered, total int) bool {
	return total > 0 && answered >= total
}

// Ranking returns the players ordered by score, highest first. The
// sort is stable so tied teams keep their board order.
func Ranking(players []Player) []Player {
	out := append([]Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Winner returns the leading player. A game where every score is
// negative still has a winner — the least negative one.
func Winner(players []Player) (Player, bool) {
	if len(players) == 0 {
		return Player{}, false
	}
	return Ranking(players)[0], true
}
