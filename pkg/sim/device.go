package sim

// Device is the capability record for entities that can be switched on and
// off, and used on other entities. Attaching it sets the device properties on
// the owner.
type Device struct {
	owner *Entity

	// TurnOnFn, if set, replaces the default activation behavior. Overrides
	// may chain to DefaultTurnOn after their own checks (e.g. a washer that
	// refuses to start while its door is open).
	TurnOnFn func() (string, bool)
	// UseWithFn implements double dispatch for "use X on Y". Nil yields the
	// fixed don't-know-how failure.
	UseWithFn func(patient *Entity) (string, bool)
}

// AttachDevice marks the entity as a device and returns the capability
// record.
func (e *Entity) AttachDevice() *Device {
	if e.Device != nil {
		return e.Device
	}
	e.Props["isDevice"] = true
	e.Props["isActivatable"] = true
	e.Props["isOn"] = false
	e.Device = &Device{owner: e}
	return e.Device
}

// TurnOn tries to switch the device on. Already-on is a stated failure, not a
// silent no-op.
func (d *Device) TurnOn() (string, bool) {
	if d.TurnOnFn != nil {
		return d.TurnOnFn()
	}
	return d.DefaultTurnOn()
}

// DefaultTurnOn is the base activation behavior, exported so TurnOnFn
// overrides can chain to it.
func (d *Device) DefaultTurnOn() (string, bool) {
	e := d.owner
	if !e.Props.Bool("isActivatable") {
		return "It's not clear how the " + e.Referents()[0] + " could be turned on.", false
	}
	if e.Props.Bool("isOn") {
		return "The " + e.Referents()[0] + " is already on.", false
	}
	e.Props["isOn"] = true
	return "The " + e.Referents()[0] + " is now turned on.", true
}

// TurnOff tries to switch the device off.
func (d *Device) TurnOff() (string, bool) {
	e := d.owner
	if !e.Props.Bool("isActivatable") {
		return "It's not clear how the " + e.Referents()[0] + " could be turned off.", false
	}
	if !e.Props.Bool("isOn") {
		return "The " + e.Referents()[0] + " is already off.", false
	}
	e.Props["isOn"] = false
	return "The " + e.Referents()[0] + " is now turned off.", true
}

// UseWith applies the device to a patient entity.
func (d *Device) UseWith(patient *Entity) (string, bool) {
	if d.UseWithFn != nil {
		return d.UseWithFn(patient)
	}
	return "You're not sure how to use the " + d.owner.Referents()[0] + " with the " + patient.Name + ".", false
}
