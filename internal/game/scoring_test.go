package game

import "testing"

func TestIsComplete(t *testing.T) {
	tests := []struct {
		answered, total int
		want            bool
	}{
		{0, 30, false},
		{29, 30, false},
		{30, 30, true},
		{5, 5, true}, // partially authored board
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := IsComplete(tt.answered, tt.total); got != tt.want {
			t.Errorf("IsComplete(%d, %d) = %v, want %v", tt.answered, tt.total, got, tt.want)
		}
	}
}

func TestRankingDescending(t *testing.T) {
	players := []Player{
		{ID: "a", Name: "A", Score: 100},
		{ID: "b", Name: "B", Score: 500},
		{ID: "c", Name: "C", Score: -200},
	}
	r := Ranking(players)

	want := []string{"b", "a", "c"}
	for i, id := range want {
		if r[i].ID != id {
			t.Errorf("ranking[%d] = %s, want %s", i, r[i].ID, id)
		}
	}
	// Input order untouched.
	if players[0].ID != "a" {
		t.Error("Ranking must not reorder its input")
	}
}

func TestRankingStableOnTies(t *testing.T) {
	players := []Player{
		{ID: "a", Score: 300},
		{ID: "b", Score: 300},
		{ID: "c", Score: 300},
	}
	r := Ranking(players)
	for i, id := range []string{"a", "b", "c"} {
		if r[i].ID != id {
			t.Errorf("tied ranking[%d] = %s, want %s (stable order)", i, r[i].ID, id)
		}
	}
}

func TestWinnerAllNegative(t *testing.T) {
	players := []Player{
		{ID: "a", Score: -400},
		{ID: "b", Score: -100},
	}
	w, ok := Winner(players)
	if !ok {
		t.Fatal("winner expected")
	}
	if w.ID != "b" {
		t.Errorf("winner = %s, want b (least negative)", w.ID)
	}
}

func TestWinnerNoPlayers(t *testing.T) {
	if _, ok := Winner(nil); ok {
		t.Error("no players should yield no winner")
	}
}
