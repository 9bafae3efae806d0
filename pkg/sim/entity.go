package sim

import "fmt"

// Properties is the mutable property bag carried by every entity. Values are
// booleans, numbers or strings. Every entity always carries the isContainer
// and isMoveable keys.
type Properties map[string]any

// Bool returns the named property as a bool, or false if absent.
func (p Properties) Bool(key string) bool {
	v, ok := p[key].(bool)
	return ok && v
}

// Int returns the named property as an int, or 0 if absent.
func (p Properties) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// String returns the named property as a string, or "" if absent.
func (p Properties) String(key string) string {
	v, _ := p[key].(string)
	return v
}

// Clone returns a shallow copy of the property bag.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Entity is a single simulated object: an id, a type tag, a display name, a
// property bag, and a position in the containment tree. Optional behavior is
// attached as capability records (Container, Device) and as per-entity hooks
// supplied by the game definition.
type Entity struct {
	ID    int
	Type  string // type tag, e.g. "Dish" or "BalanceScale"
	Name  string // base display name; referents may differ per turn
	Props Properties

	parent   *Entity
	children []*Entity

	// Capability records. Nil means the entity does not carry the capability.
	Container *Container
	Device    *Device

	// Content hooks. Nil falls back to the default behavior.
	DescribeFn  func(e *Entity, detailed bool) string
	ReferentsFn func(e *Entity) []string
	TickFn      func(e *Entity)
}

// Parent returns the entity's containing entity, or nil for the tree root.
func (e *Entity) Parent() *Entity { return e.parent }

// Children returns the ordered child list. Callers must not mutate it.
func (e *Entity) Children() []*Entity { return e.children }

// AddChild moves child into e's child list. The move is atomic: the child is
// detached from its current parent first, so membership in exactly one child
// list is preserved. It is an error to reparent an entity under itself or
// under one of its own descendants.
func (e *Entity) AddChild(child *Entity) error {
	if child == nil {
		return fmt.Errorf("sim: cannot add nil child to %q", e.Name)
	}
	for p := e; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("sim: adding %q to %q would create a containment cycle", child.Name, e.Name)
		}
	}
	child.Detach()
	e.children = append(e.children, child)
	child.parent = e
	return nil
}

// RemoveChild detaches child from e's child list. No-op if child is not a
// member.
func (e *Entity) RemoveChild(child *Entity) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Detach removes the entity from its parent's child list, if it has one.
func (e *Entity) Detach() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Contains reports whether child is a direct member of e's child list.
func (e *Entity) Contains(child *Entity) bool {
	for _, c := range e.children {
		if c == child {
			return true
		}
	}
	return false
}

// Descendants returns every transitively contained entity in pre-order. The
// slice is rebuilt on every call; containment mutates every turn, so nothing
// is cached.
func (e *Entity) Descendants() []*Entity {
	var out []*Entity
	var walk func(*Entity)
	walk = func(n *Entity) {
		for _, c := range n.children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(e)
	return out
}

// Referents returns the names this entity can currently be addressed by,
// computed from the live property bag. Defaults to the display name.
func (e *Entity) Referents() []string {
	if e.ReferentsFn != nil {
		return e.ReferentsFn(e)
	}
	return []string{e.Name}
}

// Describe renders the entity's current description.
func (e *Entity) Describe(detailed bool) string {
	if e.DescribeFn != nil {
		return e.DescribeFn(e, detailed)
	}
	return e.Name
}

// Tick runs the entity's per-turn update hook, if any.
func (e *Entity) Tick() {
	if e.TickFn != nil {
		e.TickFn(e)
	}
}
