package sim

import (
	"encoding/json"
	"testing"
)

func TestSnapshotWireShape(t *testing.T) {
	eng := NewEngine(&testGame{}, 42)
	eng.Step("take apple")

	data, err := json.Marshal(eng.Snapshot())
	if err != nil {
		t.Fatal(err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"observation", "look", "inventory", "taskDesc", "lastAction", "objects", "max_UUID"} {
		if _, ok := top[key]; !ok {
			t.Errorf("snapshot missing key %q", key)
		}
	}

	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(top["objects"], &objects); err != nil {
		t.Fatal(err)
	}
	if len(objects) == 0 {
		t.Fatal("no objects serialized")
	}
	for _, key := range []string{"name", "uuid", "type", "properties", "contains"} {
		if _, ok := objects[0][key]; !ok {
			t.Errorf("entity record missing key %q", key)
		}
	}
}

func TestSnapshotRootFirst(t *testing.T) {
	eng := NewEngine(&testGame{}, 42)
	snap := eng.Snapshot()

	if snap.Objects[0].Type != "World" {
		t.Errorf("first object type = %q, want World", snap.Objects[0].Type)
	}
	// Every reachable entity appears exactly once.
	seen := make(map[int]bool)
	for _, r := range snap.Objects {
		if seen[r.UUID] {
			t.Errorf("uuid %d serialized twice", r.UUID)
		}
		seen[r.UUID] = true
	}
	if len(snap.Objects) != 1+len(eng.World.Root.Descendants()) {
		t.Errorf("objects = %d, want %d", len(snap.Objects), 1+len(eng.World.Root.Descendants()))
	}
}

func TestComputeDiffModifiedAndRemoved(t *testing.T) {
	g := &testGame{}
	eng := NewEngine(g, 42)
	before := eng.Snapshot()

	// One property flip and one destroyed entity.
	g.box.Props["isOpen"] = true
	eng.World.Destroy(g.apple2)
	after := eng.Snapshot()

	diff := ComputeDiff(before, after)

	modified := make(map[int]bool)
	for _, r := range diff.Modified {
		modified[r.UUID] = true
	}
	if !modified[g.box.ID] {
		t.Error("box property change missing from diff")
	}
	// The room lost a child, so its contains list changed too.
	if !modified[g.room.ID] {
		t.Error("room contains change missing from diff")
	}
	if len(diff.Removed) != 1 || diff.Removed[0] != g.apple2.ID {
		t.Errorf("removed = %v, want [%d]", diff.Removed, g.apple2.ID)
	}
}

func TestComputeDiffEmptyForIdenticalSnapshots(t *testing.T) {
	eng := NewEngine(&testGame{}, 42)
	a := eng.Snapshot()
	b := eng.Snapshot()

	diff := ComputeDiff(a, b)
	if len(diff.Modified) != 0 || len(diff.Removed) != 0 {
		t.Errorf("diff of identical snapshots = %+v", diff)
	}
}
