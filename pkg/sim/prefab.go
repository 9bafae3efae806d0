package sim

// Prefabs shared by most game definitions: the single-room world root and the
// agent. Both are ordinary entities; games remain free to build their own.

// NewRoom creates a single-room world root: a non-moveable, always-open
// container describing its direct contents.
func NewRoom(w *World, name string) *Entity {
	room := w.NewEntity("World", name)
	room.AttachContainer()
	room.Props["isMoveable"] = false
	room.DescribeFn = func(e *Entity, detailed bool) string {
		out := "You find yourself in a " + e.Name + ".  In the " + e.Name + ", you see: \n"
		for _, obj := range e.Children() {
			out += "\t" + obj.Describe(false) + "\n"
		}
		return out
	}
	return room
}

// NewAgent creates the acting agent: a container whose child list is the
// inventory, addressed as "yourself".
func NewAgent(w *World) *Entity {
	agent := w.NewEntity("Agent", "agent")
	agent.AttachContainer()
	agent.ReferentsFn = func(e *Entity) []string { return []string{"yourself"} }
	agent.DescribeFn = func(e *Entity, detailed bool) string { return "yourself" }
	return agent
}
