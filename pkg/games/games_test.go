package games

import (
	"slices"
	"testing"

	"github.com/simbench/microsim/pkg/sim"
)

func TestNewKnownGames(t *testing.T) {
	for _, name := range Names() {
		game, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		// Every registered game must build a playable session.
		eng := sim.NewEngine(game, 1)
		if eng.Catalog.Len() == 0 {
			t.Errorf("%s: empty action catalog", name)
		}
		if eng.Game.TaskDescription() == "" {
			t.Errorf("%s: empty task description", name)
		}
	}
}

func TestNewUnknownGame(t *testing.T) {
	if _, err := New("no-such-game"); err == nil {
		t.Error("unknown game name should error")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if !slices.IsSorted(names) {
		t.Errorf("Names() = %v, want sorted", names)
	}
	if len(names) < 2 {
		t.Errorf("expected at least two registered games, got %v", names)
	}
}
