package sim

import "slices"

// EntityRecord is the serialized form of one reachable entity, in the wire
// shape the evaluation harness consumes.
type EntityRecord struct {
	Name       string     `json:"name"`
	UUID       int        `json:"uuid"`
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Contains   []string   `json:"contains"`
}

// Snapshot is the full reachable entity tree plus the global game fields.
// This shape is the sole contract the engine exposes to external tooling.
type Snapshot struct {
	Observation string         `json:"observation"`
	Look        string         `json:"look"`
	Inventory   string         `json:"inventory"`
	TaskDesc    string         `json:"taskDesc"`
	LastAction  string         `json:"lastAction"`
	Objects     []EntityRecord `json:"objects"`
	MaxUUID     int            `json:"max_UUID"`
}

// Diff describes only the entities that changed between two snapshots:
// records that were modified or created, and ids that disappeared.
type Diff struct {
	Modified []EntityRecord `json:"modified"`
	Removed  []int          `json:"removed"`
}

func recordOf(e *Entity) EntityRecord {
	contains := make([]string, 0, len(e.Children()))
	for _, c := range e.Children() {
		contains = append(contains, c.Name)
	}
	return EntityRecord{
		Name:       e.Name,
		UUID:       e.ID,
		Type:       e.Type,
		Properties: e.Props.Clone(),
		Contains:   contains,
	}
}

// Snapshot serializes the current state: the root first (single-room games
// expose the room itself), then every descendant in traversal order.
func (e *Engine) Snapshot() *Snapshot {
	objects := []EntityRecord{recordOf(e.World.Root)}
	for _, obj := range e.World.Root.Descendants() {
		objects = append(objects, recordOf(obj))
	}
	return &Snapshot{
		Observation: e.Observation,
		Look:        e.Look(),
		Inventory:   e.InventoryText(),
		TaskDesc:    e.Game.TaskDescription(),
		LastAction:  e.LastAction,
		Objects:     objects,
		MaxUUID:     e.World.MaxID(),
	}
}

// ScoreState returns the current verdict fields as stored on the engine.
func (e *Engine) ScoreState() Verdict {
	return Verdict{Score: e.Score, GameOver: e.GameOver, GameWon: e.GameWon}
}

func recordsEqual(a, b EntityRecord) bool {
	if a.Name != b.Name || a.UUID != b.UUID || a.Type != b.Type {
		return false
	}
	if !slices.Equal(a.Contains, b.Contains) {
		return false
	}
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	for k, v := range a.Properties {
		w, ok := b.Properties[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}

// ComputeDiff returns the partial representation of next relative to prev:
// every record that is new or changed, and the ids of entities no longer
// reachable.
func ComputeDiff(prev, next *Snapshot) *Diff {
	prevByID := make(map[int]EntityRecord, len(prev.Objects))
	for _, r := range prev.Objects {
		prevByID[r.UUID] = r
	}
	diff := &Diff{Modified: []EntityRecord{}, Removed: []int{}}
	nextIDs := make(map[int]bool, len(next.Objects))
	for _, r := range next.Objects {
		nextIDs[r.UUID] = true
		old, ok := prevByID[r.UUID]
		if !ok || !recordsEqual(old, r) {
			diff.Modified = append(diff.Modified, r)
		}
	}
	for _, r := range prev.Objects {
		if !nextIDs[r.UUID] {
			diff.Removed = append(diff.Removed, r.UUID)
		}
	}
	return diff
}
