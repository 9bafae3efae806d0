package sim

import (
	"strings"
	"testing"
)

// testGame is a minimal game definition exercising the standard verbs: a
// kitchen with two apples (deliberately sharing a referent), an openable box
// that starts closed, a table with an "on" prefix, and a clock that counts
// ticks.
type testGame struct {
	room, box, table *Entity
	apple1, apple2   *Entity
	tickCount        int
	waved            bool
}

func (g *testGame) TaskDescription() string {
	return "Your task is to put both apples on the table."
}

func (g *testGame) Build(w *World) {
	g.room = NewRoom(w, "kitchen")
	w.Root = g.room
	w.Agent = NewAgent(w)
	_ = g.room.AddChild(w.Agent)

	g.apple1 = w.NewEntity("Apple", "apple")
	_ = g.room.AddChild(g.apple1)

	g.box = w.NewEntity("Box", "box")
	g.box.AttachContainer()
	g.box.Props["isOpenable"] = true
	g.box.Props["isOpen"] = false
	g.box.Props["isMoveable"] = false
	_ = g.room.AddChild(g.box)

	g.apple2 = w.NewEntity("Apple", "apple")
	_ = g.room.AddChild(g.apple2)

	g.table = w.NewEntity("Table", "table")
	g.table.AttachContainer()
	g.table.Props["containerPrefix"] = "on"
	g.table.Props["isMoveable"] = false
	_ = g.room.AddChild(g.table)

	clock := w.NewEntity("Clock", "clock")
	clock.Props["isMoveable"] = false
	clock.TickFn = func(e *Entity) { g.tickCount++ }
	_ = g.room.AddChild(clock)
}

func (g *testGame) AddActions(b *CatalogBuilder) {
	b.AddBasicActions()
	b.AddTakeActions()
	b.AddPutActions()
	b.AddOpenCloseActions()
	b.AddExamineActions()
	b.Add("wave", Action{Verb: "wave"})
}

func (g *testGame) Dispatch(e *Engine, act Action) (string, bool) {
	if act.Verb == "wave" {
		g.waved = true
		return "You wave.", true
	}
	return "", false
}

func (g *testGame) Score(w *World) Verdict {
	score := 0
	for _, c := range g.table.Children() {
		if c.Type == "Apple" {
			score++
		}
	}
	v := Verdict{Score: score}
	if score >= 2 {
		v.GameOver = true
		v.GameWon = true
	}
	return v
}

func newTestEngine(t *testing.T) (*Engine, *testGame) {
	t.Helper()
	g := &testGame{}
	return NewEngine(g, 42), g
}

func TestUnknownCommandIsNoOp(t *testing.T) {
	eng, g := newTestEngine(t)
	before := eng.Snapshot()

	result := eng.Step("frobnicate the apple")

	if result.Observation != NotUnderstood {
		t.Errorf("observation = %q, want %q", result.Observation, NotUnderstood)
	}
	if result.Reward != 0 {
		t.Errorf("reward = %d, want 0", result.Reward)
	}
	if eng.NumSteps != 0 {
		t.Errorf("NumSteps = %d, want 0", eng.NumSteps)
	}
	if g.tickCount != 0 {
		t.Errorf("tickCount = %d, want 0 (unknown commands must not tick)", g.tickCount)
	}

	after := eng.Snapshot()
	diff := ComputeDiff(before, after)
	if len(diff.Modified) != 0 || len(diff.Removed) != 0 {
		t.Errorf("unknown command mutated the world: %+v", diff)
	}
}

func TestTakePutRoundTrip(t *testing.T) {
	eng, g := newTestEngine(t)

	result := eng.Step("take apple")
	want := "The apple is removed from the kitchen. You put the apple in your inventory."
	if result.Observation != want {
		t.Errorf("take observation = %q, want %q", result.Observation, want)
	}
	if g.apple1.Parent() != eng.World.Agent {
		t.Fatal("apple should be in the inventory")
	}
	if !strings.Contains(eng.InventoryText(), "apple") {
		t.Errorf("inventory text should list the apple, got %q", eng.InventoryText())
	}

	result = eng.Step("put apple on table")
	if g.apple1.Parent() != g.table {
		t.Fatal("apple should be on the table")
	}
	if result.Score != 1 || result.Reward != 1 {
		t.Errorf("score/reward = %d/%d, want 1/1", result.Score, result.Reward)
	}
}

func TestAmbiguousReferentFirstBinding(t *testing.T) {
	eng, g := newTestEngine(t)

	// Both apples answer to "apple". The first binding in traversal order
	// wins, which is the one placed in the room earlier.
	eng.Step("take apple")
	if g.apple1.Parent() != eng.World.Agent {
		t.Error("first-binding policy should pick the earlier apple")
	}
	if g.apple2.Parent() != g.room {
		t.Error("second apple should be untouched")
	}
}

func TestPutIntoClosedContainerRollsBack(t *testing.T) {
	eng, g := newTestEngine(t)

	eng.Step("take apple")
	result := eng.Step("put apple in box")

	want := "The box is closed, so things can't be placed there."
	if result.Observation != want {
		t.Errorf("observation = %q, want %q", result.Observation, want)
	}
	if g.apple1.Parent() != eng.World.Agent {
		t.Error("failed put must return the apple to the inventory")
	}
	if len(g.box.Children()) != 0 {
		t.Error("box must stay empty after the refused put")
	}
}

func TestOpenCloseLadder(t *testing.T) {
	eng, _ := newTestEngine(t)

	tests := []struct {
		cmd  string
		want string
	}{
		{"open box", "The box is now open."},
		{"open box", "The box is already open."},
		{"close box", "The box is now closed."},
		{"close box", "The box is already closed."},
		{"open table", "The table can't be opened."},
		{"close table", "The table can't be closed."},
		{"open apple", "You can't open that."},
	}
	for _, tc := range tests {
		result := eng.Step(tc.cmd)
		if result.Observation != tc.want {
			t.Errorf("%q = %q, want %q", tc.cmd, result.Observation, tc.want)
		}
	}
}

func TestTakeYourself(t *testing.T) {
	eng, _ := newTestEngine(t)
	result := eng.Step("take yourself")
	if result.Observation != "You cannot take yourself." {
		t.Errorf("observation = %q", result.Observation)
	}
}

func TestCustomVerbDispatch(t *testing.T) {
	eng, g := newTestEngine(t)
	result := eng.Step("wave")
	if result.Observation != "You wave." {
		t.Errorf("observation = %q", result.Observation)
	}
	if !g.waved {
		t.Error("custom verb should reach the game's Dispatch")
	}
}

func TestTickRunsOncePerValidStep(t *testing.T) {
	eng, g := newTestEngine(t)

	eng.Step("look around")
	eng.Step("look")
	eng.Step("inventory")
	if g.tickCount != 3 {
		t.Errorf("tickCount = %d, want 3", g.tickCount)
	}
	if eng.NumSteps != 3 {
		t.Errorf("NumSteps = %d, want 3", eng.NumSteps)
	}
}

func TestScoreLatch(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.Step("take apple")
	eng.Step("put apple on table")
	eng.Step("take apple")
	eng.Step("put apple on table")

	if !eng.GameOver || !eng.GameWon {
		t.Fatal("both apples on the table should win the game")
	}
	if eng.Score != 2 {
		t.Fatalf("score = %d, want 2", eng.Score)
	}

	// Undo the winning condition. The score drops but the termination flags
	// are one-way latches.
	result := eng.Step("take apple")
	if eng.Score != 1 || result.Reward != -1 {
		t.Errorf("score/reward = %d/%d, want 1/-1", eng.Score, result.Reward)
	}
	if !eng.GameOver || !eng.GameWon {
		t.Error("termination flags must stay latched after the tree regresses")
	}
}

func TestInventoryEmpty(t *testing.T) {
	eng, _ := newTestEngine(t)
	result := eng.Step("inventory")
	if result.Observation != "Your inventory is empty." {
		t.Errorf("observation = %q", result.Observation)
	}
}

func TestStepTracePhases(t *testing.T) {
	g := &testGame{}
	eng := NewEngine(g, 42)

	trace := eng.StepTrace("take apple")
	if trace.AfterAction == nil || trace.AfterTick == nil {
		t.Fatal("trace snapshots must be populated")
	}
	if trace.Result.Observation != "The apple is removed from the kitchen. You put the apple in your inventory." {
		t.Errorf("observation = %q", trace.Result.Observation)
	}

	// The apple is in the inventory in both phase snapshots.
	for _, snap := range []*Snapshot{trace.AfterAction, trace.AfterTick} {
		var agentRec *EntityRecord
		for i := range snap.Objects {
			if snap.Objects[i].Type == "Agent" {
				agentRec = &snap.Objects[i]
			}
		}
		if agentRec == nil {
			t.Fatal("agent record missing from snapshot")
		}
		if len(agentRec.Contains) != 1 || agentRec.Contains[0] != "apple" {
			t.Errorf("agent contains = %v, want [apple]", agentRec.Contains)
		}
	}
}
