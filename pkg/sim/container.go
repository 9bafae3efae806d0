package sim

// Container is the capability record for entities that can hold other
// entities via put/take. Attaching it sets the container properties on the
// owner; games may override the place/takeOut behavior per entity.
type Container struct {
	owner *Entity

	// PlaceFn, if set, replaces the default placement behavior (e.g. a scale
	// that refuses direct puts and directs the player to its pans).
	PlaceFn func(obj *Entity) (string, bool)
	// TakeOutFn, if set, replaces the default removal behavior.
	TakeOutFn func(obj *Entity) (string, bool)
}

// AttachContainer marks the entity as a container and returns the capability
// record. Containers default to always-open ("a table, a shelf"); openable
// containers gate place/takeOut on isOpen.
func (e *Entity) AttachContainer() *Container {
	if e.Container != nil {
		return e.Container
	}
	e.Props["isContainer"] = true
	e.Props["isOpenable"] = false
	e.Props["isOpen"] = true
	e.Props["containerPrefix"] = "in"
	e.Container = &Container{owner: e}
	return e.Container
}

// Open tries to open the container. Returns an observation and whether the
// state changed.
func (c *Container) Open() (string, bool) {
	e := c.owner
	if !e.Props.Bool("isOpenable") {
		return "The " + e.Name + " can't be opened.", false
	}
	if e.Props.Bool("isOpen") {
		return "The " + e.Name + " is already open.", false
	}
	e.Props["isOpen"] = true
	return "The " + e.Name + " is now open.", true
}

// Close tries to close the container.
func (c *Container) Close() (string, bool) {
	e := c.owner
	if !e.Props.Bool("isOpenable") {
		return "The " + e.Name + " can't be closed.", false
	}
	if !e.Props.Bool("isOpen") {
		return "The " + e.Name + " is already closed.", false
	}
	e.Props["isOpen"] = false
	return "The " + e.Name + " is now closed.", true
}

// Place tries to move obj into the container, checking the full precondition
// ladder: the owner is a container, obj is moveable, and the container is
// open. On success the reparent has happened.
func (c *Container) Place(obj *Entity) (string, bool) {
	if c.PlaceFn != nil {
		return c.PlaceFn(obj)
	}
	return c.placeDefault(obj)
}

func (c *Container) placeDefault(obj *Entity) (string, bool) {
	e := c.owner
	if !e.Props.Bool("isContainer") {
		return "The " + e.Name + " is not a container, so things can't be placed there.", false
	}
	if !obj.Props.Bool("isMoveable") {
		return "The " + obj.Name + " is not moveable.", false
	}
	if !e.Props.Bool("isOpen") {
		return "The " + e.Name + " is closed, so things can't be placed there.", false
	}
	if err := e.AddChild(obj); err != nil {
		return "The " + obj.Name + " can't go there.", false
	}
	return "The " + obj.Referents()[0] + " is placed in the " + e.Name + ".", true
}

// TakeOut tries to remove obj from the container. Symmetric checks to Place,
// plus a membership check.
func (c *Container) TakeOut(obj *Entity) (string, bool) {
	if c.TakeOutFn != nil {
		return c.TakeOutFn(obj)
	}
	return c.takeOutDefault(obj)
}

func (c *Container) takeOutDefault(obj *Entity) (string, bool) {
	e := c.owner
	if !e.Props.Bool("isContainer") {
		return "The " + e.Name + " is not a container, so things can't be removed from it.", false
	}
	if !obj.Props.Bool("isMoveable") {
		return "The " + obj.Name + " is not moveable.", false
	}
	if !e.Props.Bool("isOpen") {
		return "The " + e.Name + " is closed, so things can't be removed from it.", false
	}
	if !e.Contains(obj) {
		return "The " + obj.Name + " is not contained in the " + e.Name + ".", false
	}
	obj.Detach()
	return "The " + obj.Referents()[0] + " is removed from the " + e.Name + ".", true
}
