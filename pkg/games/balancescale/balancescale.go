// Package balancescale is a micro-simulation of weighing an object with a
// two-pan balance scale. The player moves calibrated weights onto one pan and
// the target cube onto the other until the scale balances, then answers with
// the cube's mass.
package balancescale

import (
	"fmt"
	"strings"

	"github.com/simbench/microsim/pkg/sim"
)

// MaxMass is the largest answerable mass in grams.
const MaxMass = 19

// Config controls world generation. The zero value draws the cube's mass from
// the session RNG.
type Config struct {
	CubeMass int // 1..MaxMass; 0 means random
}

type game struct {
	cfg      Config
	cubeMass int

	answered bool
	answer   int
}

// New creates the game definition.
func New(cfg Config) sim.Game {
	return &game{cfg: cfg}
}

func (g *game) TaskDescription() string {
	return "Your task is to figure out the weight of the cube. Use the answer action to give your answer."
}

func (g *game) Build(w *sim.World) {
	room := sim.NewRoom(w, "room")
	w.Root = room
	w.Agent = sim.NewAgent(w)
	room.AddChild(w.Agent)

	room.AddChild(newScale(w))

	// Calibrated weights: 1g twice, so "weight 1" is an ambiguous referent.
	for _, mass := range []int{1, 1, 2, 5, 10} {
		room.AddChild(newWeight(w, mass))
	}

	g.cubeMass = g.cfg.CubeMass
	if g.cubeMass == 0 {
		g.cubeMass = 1 + w.Rand().Intn(MaxMass)
	}
	cube := w.NewEntity("Cube", "cube")
	cube.Props["weight"] = g.cubeMass
	cube.DescribeFn = func(e *sim.Entity, detailed bool) string { return "a " + e.Name }
	room.AddChild(cube)

	// A distractor container.
	box := w.NewEntity("Box", "box")
	box.AttachContainer()
	box.DescribeFn = func(e *sim.Entity, detailed bool) string { return "a " + e.Name }
	room.AddChild(box)
}

func (g *game) AddActions(b *sim.CatalogBuilder) {
	b.AddBasicActions()
	b.AddTakeActions()
	for i := 1; i <= MaxMass; i++ {
		b.Add(fmt.Sprintf("answer %dg", i), sim.Action{Verb: "answer", Value: i})
	}
	b.AddPutActions()
}

func (g *game) Dispatch(e *sim.Engine, act sim.Action) (string, bool) {
	if act.Verb != "answer" {
		return "", false
	}
	g.answered = true
	g.answer = act.Value.(int)
	return fmt.Sprintf("You believe the cube weighs %dg.", g.answer), true
}

func (g *game) Score(w *sim.World) sim.Verdict {
	if !g.answered {
		return sim.Verdict{}
	}
	if g.answer == g.cubeMass {
		return sim.Verdict{Score: 1, GameOver: true, GameWon: true}
	}
	return sim.Verdict{GameOver: true, GameWon: false}
}

func newWeight(w *sim.World, mass int) *sim.Entity {
	weight := w.NewEntity("Weight", fmt.Sprintf("weight %d", mass))
	weight.Props["weight"] = mass
	weight.DescribeFn = func(e *sim.Entity, detailed bool) string {
		return fmt.Sprintf("a %dg weight", e.Props.Int("weight"))
	}
	return weight
}

// newScale builds the scale: a non-moveable container that refuses direct
// puts and takes, holding the two pans as children.
func newScale(w *sim.World) *sim.Entity {
	scale := w.NewEntity("BalanceScale", "balance scale")
	c := scale.AttachContainer()
	scale.Props["isMoveable"] = false
	c.PlaceFn = func(obj *sim.Entity) (string, bool) {
		return fmt.Sprintf("You can't put the %s on the balance scale directly. Put it in one of the pans.", obj.Referents()[0]), false
	}
	c.TakeOutFn = func(obj *sim.Entity) (string, bool) {
		return fmt.Sprintf("You can't take the %s.", obj.Referents()[0]), false
	}

	left := newPan(w, "left pan")
	right := newPan(w, "right pan")
	scale.AddChild(left)
	scale.AddChild(right)

	scale.DescribeFn = func(e *sim.Entity, detailed bool) string {
		leftMass := panMass(left)
		rightMass := panMass(right)
		var state string
		switch {
		case leftMass > rightMass:
			state = "The left pan is lower than the right pan."
		case leftMass < rightMass:
			state = "The left pan is higher than the right pan."
		default:
			state = "The scale is in balance."
		}
		return fmt.Sprintf("a %s with two pans. %s The left pan %s. The right pan %s.",
			e.Name, state, panContents(left), panContents(right))
	}
	return scale
}

func newPan(w *sim.World, name string) *sim.Entity {
	pan := w.NewEntity("Pan", name)
	pan.AttachContainer()
	pan.Props["isMoveable"] = false
	pan.Props["containerPrefix"] = "in"
	return pan
}

func panMass(pan *sim.Entity) int {
	mass := 0
	for _, obj := range pan.Children() {
		mass += obj.Props.Int("weight")
	}
	return mass
}

func panContents(pan *sim.Entity) string {
	var items []string
	for _, obj := range pan.Children() {
		items = append(items, obj.Describe(false))
	}
	if len(items) == 0 {
		return "is empty"
	}
	out := "contains "
	for i, item := range items {
		if i == len(items)-1 && len(items) > 1 {
			out += "and "
		}
		out += item + ", "
	}
	return strings.TrimSuffix(out, ", ")
}
