// Package dishwasher is a micro-simulation of washing dishes: load the dirty
// dishes into the washer, add soap, close the door and run a full cycle.
// Dishes address as "dirty plate" or "clean plate" depending on live state,
// and food distractors can re-dirty a clean dish.
package dishwasher

import (
	"strings"

	"github.com/simbench/microsim/pkg/sim"
)

var (
	dishNames = []string{"plate", "bowl", "cup", "mug", "pot", "pan", "fork", "spoon", "knife", "bottle", "glass"}
	foodNames = []string{"apple", "orange", "banana", "pizza", "peanut butter", "sandwich", "pasta", "bell pepper"}

	// Dishes you put things "on" rather than "in".
	flatDishes = map[string]bool{"plate": true, "fork": true, "spoon": true, "knife": true}
)

// Config controls world generation. The zero value draws dish and food counts
// from the session RNG, like a fresh playthrough.
type Config struct {
	DirtyDishes []string // dish type per dirty dish; nil means random
	CleanDishes []string // dish type per clean dish; nil means random
	Foods       []string // food name per distractor; nil means random
}

type game struct {
	cfg           Config
	startingDirty int
}

// New creates the game definition.
func New(cfg Config) sim.Game {
	return &game{cfg: cfg}
}

func (g *game) TaskDescription() string {
	return "Your task is to wash the dirty dishes."
}

func (g *game) Build(w *sim.World) {
	kitchen := sim.NewRoom(w, "kitchen")
	w.Root = kitchen
	w.Agent = sim.NewAgent(w)
	kitchen.AddChild(w.Agent)

	kitchen.AddChild(newWasher(w))
	kitchen.AddChild(newSoapBottle(w))

	dirty, clean, foods := g.cfg.DirtyDishes, g.cfg.CleanDishes, g.cfg.Foods
	if dirty == nil {
		rng := w.Rand()
		shuffledDishes := append([]string(nil), dishNames...)
		rng.Shuffle(len(shuffledDishes), func(i, j int) {
			shuffledDishes[i], shuffledDishes[j] = shuffledDishes[j], shuffledDishes[i]
		})
		shuffledFoods := append([]string(nil), foodNames...)
		rng.Shuffle(len(shuffledFoods), func(i, j int) {
			shuffledFoods[i], shuffledFoods[j] = shuffledFoods[j], shuffledFoods[i]
		})
		numDirty := 3 + rng.Intn(3)
		numClean := 1 + rng.Intn(3)
		numFoods := 1 + rng.Intn(3)
		dirty = shuffledDishes[:numDirty]
		clean = shuffledDishes[numDirty : numDirty+numClean]
		foods = shuffledFoods[:numFoods]
	}
	g.startingDirty = len(dirty)

	for i, dishType := range dirty {
		kitchen.AddChild(newDish(w, dishType, true, foodNames[i%len(foodNames)]))
	}
	for _, dishType := range clean {
		kitchen.AddChild(newDish(w, dishType, false, ""))
	}
	for _, foodName := range foods {
		food := w.NewEntity("Food", foodName)
		food.Props["isFood"] = true
		food.DescribeFn = func(e *sim.Entity, detailed bool) string { return "a " + e.Name }
		kitchen.AddChild(food)
	}
}

func (g *game) AddActions(b *sim.CatalogBuilder) {
	b.AddBasicActions()
	b.AddTakeActions()
	b.AddOpenCloseActions()
	b.AddExamineActions()
	b.AddDeviceActions()
	// Eat pairs every referent with every referent, self-pairs included; the
	// handler sorts out the nonsense combinations.
	b.ForEachReferentPair(false, func(name1 string, obj1 *sim.Entity, name2 string, obj2 *sim.Entity) {
		b.Add("eat "+name1+" with "+name2, sim.Action{Verb: "eat", Args: []*sim.Entity{obj1, obj2}})
	})
	b.AddPutActions()
	b.AddUseActions()
}

func (g *game) Dispatch(e *sim.Engine, act sim.Action) (string, bool) {
	if act.Verb != "eat" {
		return "", false
	}
	return g.actionEat(e, act.Args[0], act.Args[1]), true
}

// actionEat eats food from a clean dish, dirtying it again and discarding the
// food.
func (g *game) actionEat(e *sim.Engine, food, dish *sim.Entity) string {
	if food.Parent() != e.World.Agent {
		return "You don't currently have the " + food.Referents()[0] + " in your inventory."
	}
	if dish.Type != "Dish" {
		return dish.Name + " is not a dish."
	}
	if dish.Props.Bool("isDirty") {
		return "You can't eat with a dirty dish."
	}
	if !food.Props.Bool("isFood") {
		return "You can't eat that."
	}
	parent := food.Parent()
	if parent.Container == nil {
		return "You can't see that."
	}
	if _, ok := parent.Container.TakeOut(food); !ok {
		return "You can't see that."
	}
	makeDirty(dish, food.Name)
	e.World.Root.AddChild(dish)
	return "You eat the " + food.Name + " using the " + dish.Props.String("dishType") + "."
}

// Score is one point per starting dirty dish, minus one per dish currently
// dirty. All clean wins the game.
func (g *game) Score(w *sim.World) sim.Verdict {
	v := sim.Verdict{Score: g.startingDirty}
	numDirty := 0
	for _, obj := range w.Root.Descendants() {
		if obj.Type == "Dish" && obj.Props.Bool("isDirty") {
			v.Score--
			numDirty++
		}
	}
	if numDirty == 0 {
		v.GameOver = true
		v.GameWon = true
	}
	return v
}

// newWasher builds the dishwasher: an openable container and a device with a
// three-stage cycle. Stage 2 consumes the soap and cleans the dishes inside;
// stage 3 finishes the cycle and powers off. Opening the door mid-cycle
// resets everything.
func newWasher(w *sim.World) *sim.Entity {
	washer := w.NewEntity("DishWasher", "dishwasher")
	washer.AttachContainer()
	dev := washer.AttachDevice()
	washer.Props["isOpenable"] = true
	washer.Props["isOpen"] = false
	washer.Props["isMoveable"] = false
	washer.Props["cycleStage"] = 0
	washer.Props["finishedCycle"] = false

	dev.TurnOnFn = func() (string, bool) {
		if washer.Props.Bool("isOpen") {
			return "The " + washer.Name + " is opened, so it can't be turned on.", false
		}
		return dev.DefaultTurnOn()
	}

	washer.TickFn = func(e *sim.Entity) {
		if e.Props.Bool("isOpen") {
			e.Props["isOn"] = false
			e.Props["finishedCycle"] = false
			e.Props["cycleStage"] = 0
		}
		if !e.Props.Bool("isOn") {
			return
		}
		stage := e.Props.Int("cycleStage")
		if stage < 3 {
			stage++
			e.Props["cycleStage"] = stage
		}
		switch stage {
		case 2:
			inside := e.Descendants()
			hasSoap := false
			for _, obj := range inside {
				if obj.Type == "Soap" {
					hasSoap = true
					break
				}
			}
			if hasSoap {
				for _, obj := range inside {
					if obj.Type == "Dish" {
						makeClean(obj)
					}
				}
			}
			// The soap is used up either way.
			for _, obj := range inside {
				if obj.Type == "Soap" {
					obj.Detach()
				}
			}
		case 3:
			e.Props["finishedCycle"] = true
			e.Props["cycleStage"] = 0
			e.Device.TurnOff()
		}
	}

	washer.DescribeFn = func(e *sim.Entity, detailed bool) string {
		out := "a " + e.Name
		if e.Props.Bool("finishedCycle") {
			out += " with a blinking green light"
		}
		if e.Props.Bool("isOn") {
			return out + " that is currently on"
		}
		if !e.Props.Bool("isOpen") {
			return out + " that is currently closed"
		}
		out += " that is currently open"
		if len(e.Children()) == 0 {
			return out + " and empty"
		}
		if !detailed {
			return out + " and contains one or more items."
		}
		out += " and contains the following items: \n"
		for _, obj := range e.Children() {
			out += "\t" + obj.Describe(false) + "\n"
		}
		return out
	}
	return washer
}

// newSoapBottle builds the soap bottle: a device used on a dish or the washer
// to dispense a squirt of soap, created ad hoc.
func newSoapBottle(w *sim.World) *sim.Entity {
	bottle := w.NewEntity("DishSoapBottle", "bottle of dish soap")
	dev := bottle.AttachDevice()
	bottle.DescribeFn = func(e *sim.Entity, detailed bool) string { return "a " + e.Name }

	dev.UseWithFn = func(patient *sim.Entity) (string, bool) {
		switch patient.Type {
		case "Dish":
			patient.AddChild(newSoap(w))
			return "You squirt some dish soap on the " + patient.Referents()[0] + ".", true
		case "DishWasher":
			// Squirting into a closed washer is fine; the soap goes through
			// the dispenser slot.
			patient.AddChild(newSoap(w))
			return "You squirt some dish soap into the dishwasher.", true
		}
		return "You're not sure how to use the " + bottle.Name + " with the " + patient.Name + ".", false
	}
	return bottle
}

func newSoap(w *sim.World) *sim.Entity {
	soap := w.NewEntity("Soap", "dish soap")
	soap.DescribeFn = func(e *sim.Entity, detailed bool) string { return "a squirt of " + e.Name }
	return soap
}

func newDish(w *sim.World, dishType string, isDirty bool, foodMess string) *sim.Entity {
	dish := w.NewEntity("Dish", dishType)
	dish.AttachContainer()
	prefix := "in"
	if flatDishes[dishType] {
		prefix = "on"
	}
	dish.Props["containerPrefix"] = prefix
	dish.Props["dishType"] = dishType
	dish.Props["isDirty"] = false
	dish.Props["foodMessName"] = nil
	if isDirty {
		makeDirty(dish, foodMess)
	}

	dish.ReferentsFn = func(e *sim.Entity) []string {
		state := "clean "
		if e.Props.Bool("isDirty") {
			state = "dirty "
		}
		return []string{state + e.Name, e.Name}
	}

	dish.DescribeFn = func(e *sim.Entity, detailed bool) string {
		out := "a "
		if e.Props.Bool("isDirty") {
			out += "dirty "
		} else {
			out += "clean "
		}
		out += e.Name

		var contents []string
		if e.Props.Bool("isDirty") {
			contents = append(contents, "half-eaten pieces of "+e.Props.String("foodMessName"))
		}
		for _, obj := range e.Children() {
			contents = append(contents, obj.Describe(false))
		}
		if len(contents) == 0 {
			return out
		}
		out += " that looks to have "
		for i, item := range contents {
			if i == len(contents)-1 && len(contents) > 1 {
				out += "and "
			}
			out += item + ", "
		}
		return strings.TrimSuffix(out, ", ") + " " + e.Props.String("containerPrefix") + " it"
	}
	return dish
}

func makeDirty(dish *sim.Entity, foodMess string) {
	dish.Props["isDirty"] = true
	dish.Props["foodMessName"] = foodMess
}

func makeClean(dish *sim.Entity) {
	dish.Props["isDirty"] = false
	dish.Props["foodMessName"] = nil
}
