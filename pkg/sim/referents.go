package sim

// ReferentTable maps every name a reachable entity currently answers to onto
// the entities carrying it, preserving discovery order. It is rebuilt from
// the live property bags every turn; a "plate" that becomes a "dirty plate"
// addresses differently on the next turn. Two entities sharing a referent are
// kept as an ordered list and resolved first-match at dispatch.
type ReferentTable struct {
	names  []string
	byName map[string][]*Entity
}

// ResolveReferents walks root's descendants in pre-order and collects each
// entity's referent strings.
func ResolveReferents(root *Entity) *ReferentTable {
	t := &ReferentTable{byName: make(map[string][]*Entity)}
	for _, e := range root.Descendants() {
		for _, name := range e.Referents() {
			if _, seen := t.byName[name]; !seen {
				t.names = append(t.names, name)
			}
			t.byName[name] = append(t.byName[name], e)
		}
	}
	return t
}

// ForEach visits every (referent, entities) pair in discovery order.
func (t *ReferentTable) ForEach(fn func(name string, objs []*Entity)) {
	for _, name := range t.names {
		fn(name, t.byName[name])
	}
}

// Lookup returns the entities answering to name, in traversal order.
func (t *ReferentTable) Lookup(name string) []*Entity {
	return t.byName[name]
}

// Len returns the number of distinct referent strings.
func (t *ReferentTable) Len() int { return len(t.names) }
