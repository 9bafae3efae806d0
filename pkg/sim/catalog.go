package sim

// Action is one argument binding for a command string: a verb, up to three
// entity arguments, and an optional non-entity value (e.g. a numeric answer).
type Action struct {
	Verb  string
	Args  []*Entity
	Value any
}

// Catalog is the complete set of currently valid command strings, each mapped
// to an ordered list of argument bindings. Ambiguous commands (several
// bindings for one string) are preserved at build time; dispatch applies the
// first-binding policy. Insertion order is kept so that two builds against an
// unmutated tree enumerate identically.
type Catalog struct {
	commands []string
	actions  map[string][]Action
}

func NewCatalog() *Catalog {
	return &Catalog{actions: make(map[string][]Action)}
}

// Add registers one argument binding for a command string.
func (c *Catalog) Add(cmd string, a Action) {
	if _, ok := c.actions[cmd]; !ok {
		c.commands = append(c.commands, cmd)
	}
	c.actions[cmd] = append(c.actions[cmd], a)
}

// Lookup returns the bindings for a command string in registration order.
func (c *Catalog) Lookup(cmd string) ([]Action, bool) {
	a, ok := c.actions[cmd]
	return a, ok
}

// Commands returns every command string in registration order.
func (c *Catalog) Commands() []string { return c.commands }

// Len returns the number of distinct command strings.
func (c *Catalog) Len() int { return len(c.commands) }

// CatalogBuilder enumerates candidate commands as cross products over the
// current referent table. Game definitions call the standard helpers for the
// verbs they support and Add for custom verbs. Cost is O(R) per 1-arg verb
// and O(R²) per 2-arg verb; R stays small (tens of entities).
type CatalogBuilder struct {
	World *World
	Refs  *ReferentTable

	cat *Catalog
}

func NewCatalogBuilder(w *World) *CatalogBuilder {
	return &CatalogBuilder{
		World: w,
		Refs:  ResolveReferents(w.Root),
		cat:   NewCatalog(),
	}
}

// Catalog returns the built catalog.
func (b *CatalogBuilder) Catalog() *Catalog { return b.cat }

// Add registers a custom command.
func (b *CatalogBuilder) Add(cmd string, a Action) {
	b.cat.Add(cmd, a)
}

// ForEachReferent visits every (referent, entity) pair for custom 1-arg
// verbs.
func (b *CatalogBuilder) ForEachReferent(fn func(name string, obj *Entity)) {
	b.Refs.ForEach(func(name string, objs []*Entity) {
		for _, obj := range objs {
			fn(name, obj)
		}
	})
}

// ForEachReferentPair visits every ordered pair of (referent, entity)
// bindings. When excludeSame is true, pairs binding the same underlying
// entity are skipped.
func (b *CatalogBuilder) ForEachReferentPair(excludeSame bool, fn func(name1 string, obj1 *Entity, name2 string, obj2 *Entity)) {
	b.Refs.ForEach(func(name1 string, objs1 []*Entity) {
		b.Refs.ForEach(func(name2 string, objs2 []*Entity) {
			for _, obj1 := range objs1 {
				for _, obj2 := range objs2 {
					if excludeSame && obj1 == obj2 {
						continue
					}
					fn(name1, obj1, name2, obj2)
				}
			}
		})
	})
}

// AddBasicActions registers the fixed 0-arg verbs: look/look around and
// inventory.
func (b *CatalogBuilder) AddBasicActions() {
	b.cat.Add("look around", Action{Verb: VerbLook})
	b.cat.Add("look", Action{Verb: VerbLook})
	b.cat.Add("inventory", Action{Verb: VerbInventory})
}

// AddTakeActions registers "take X" and "take X from Y" for every referent.
func (b *CatalogBuilder) AddTakeActions() {
	b.ForEachReferent(func(name string, obj *Entity) {
		b.cat.Add("take "+name, Action{Verb: VerbTake, Args: []*Entity{obj}})
		if p := obj.Parent(); p != nil {
			b.cat.Add("take "+name+" from "+p.Referents()[0], Action{Verb: VerbTake, Args: []*Entity{obj}})
		}
	})
}

// AddPutActions registers "put X <prefix> Y" for every referent pair,
// excluding self-pairing. The preposition comes from the destination's
// containerPrefix property, so the concrete command text depends on
// capability state.
func (b *CatalogBuilder) AddPutActions() {
	b.ForEachReferentPair(true, func(name1 string, obj1 *Entity, name2 string, obj2 *Entity) {
		prefix := "in"
		if obj2.Props.Bool("isContainer") {
			prefix = obj2.Props.String("containerPrefix")
		}
		b.cat.Add("put "+name1+" "+prefix+" "+name2, Action{Verb: VerbPut, Args: []*Entity{obj1, obj2}})
	})
}

// AddOpenCloseActions registers "open X" and "close X" for every referent.
func (b *CatalogBuilder) AddOpenCloseActions() {
	b.ForEachReferent(func(name string, obj *Entity) {
		b.cat.Add("open "+name, Action{Verb: VerbOpen, Args: []*Entity{obj}})
		b.cat.Add("close "+name, Action{Verb: VerbClose, Args: []*Entity{obj}})
	})
}

// AddExamineActions registers "examine X" for every referent.
func (b *CatalogBuilder) AddExamineActions() {
	b.ForEachReferent(func(name string, obj *Entity) {
		b.cat.Add("examine "+name, Action{Verb: VerbExamine, Args: []*Entity{obj}})
	})
}

// AddDeviceActions registers "turn on X" and "turn off X" for every referent.
func (b *CatalogBuilder) AddDeviceActions() {
	b.ForEachReferent(func(name string, obj *Entity) {
		b.cat.Add("turn on "+name, Action{Verb: VerbTurnOn, Args: []*Entity{obj}})
		b.cat.Add("turn off "+name, Action{Verb: VerbTurnOff, Args: []*Entity{obj}})
	})
}

// AddUseActions registers "use X on Y" for every referent pair, excluding
// self-pairing.
func (b *CatalogBuilder) AddUseActions() {
	b.ForEachReferentPair(true, func(name1 string, obj1 *Entity, name2 string, obj2 *Entity) {
		b.cat.Add("use "+name1+" on "+name2, Action{Verb: VerbUse, Args: []*Entity{obj1, obj2}})
	})
}
