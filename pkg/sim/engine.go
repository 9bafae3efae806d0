package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// Standard verbs dispatched by the engine itself. Game definitions register
// additional verbs and handle them in Dispatch.
const (
	VerbLook      = "look around"
	VerbInventory = "inventory"
	VerbExamine   = "examine"
	VerbTake      = "take"
	VerbPut       = "put"
	VerbOpen      = "open"
	VerbClose     = "close"
	VerbTurnOn    = "turn on"
	VerbTurnOff   = "turn off"
	VerbUse       = "use"
)

// NotUnderstood is the fixed observation for a command string absent from the
// catalog. The unknown-command path performs no mutation at all.
const NotUnderstood = "I don't understand that."

// Verdict is one evaluation of a game's score oracle over the entity tree.
type Verdict struct {
	Score    int  `json:"score"`
	GameOver bool `json:"gameOver"`
	GameWon  bool `json:"gameWon"`
}

// Game is a pluggable game definition: per-title content composed onto the
// shared engine.
type Game interface {
	// TaskDescription returns the fixed task text shown to the player.
	TaskDescription() string
	// Build constructs the world tree. It must set w.Root and w.Agent.
	Build(w *World)
	// AddActions enumerates the game's valid commands for the current turn
	// using the builder's standard helpers plus any custom verbs.
	AddActions(b *CatalogBuilder)
	// Dispatch handles a custom verb. It returns (observation, true) when the
	// verb belongs to this game, or ("", false) to report an unknown verb.
	Dispatch(e *Engine, act Action) (string, bool)
	// Score recomputes score and termination from scratch by rescanning the
	// tree. It must be idempotent under an unmutated tree.
	Score(w *World) Verdict
}

// Result is the per-turn contract: the observation, the absolute score, the
// reward (score delta computed by the engine, never by handlers), and the
// termination flags.
type Result struct {
	Observation string
	Score       int
	Reward      int
	GameOver    bool
	GameWon     bool
}

// Trace is a phase-split step: the world snapshot after the action phase and
// after the tick phase, for tooling that diffs the two.
type Trace struct {
	Result      Result
	AfterAction *Snapshot
	AfterTick   *Snapshot
}

// Engine steps one game session: resolve command, apply effect, advance the
// tick, rescore. Fully synchronous and single-writer; one Engine owns one
// tree.
type Engine struct {
	ID      uuid.UUID
	World   *World
	Game    Game
	Catalog *Catalog

	Observation string
	Score       int
	GameOver    bool
	GameWon     bool
	NumSteps    int
	LastAction  string
}

// NewEngine builds the world from the game definition, computes the initial
// score and observation, and enumerates the initial catalog.
func NewEngine(g Game, seed int64) *Engine {
	w := NewWorld(seed)
	g.Build(w)
	if w.Root == nil || w.Agent == nil {
		panic("sim: game Build must set World.Root and World.Agent")
	}
	e := &Engine{
		ID:    uuid.New(),
		World: w,
		Game:  g,
	}
	e.Observation = w.Root.Describe(false)
	v := g.Score(w)
	e.Score = v.Score
	e.GameOver = v.GameOver
	e.GameWon = v.GameWon
	e.rebuildCatalog()
	return e
}

func (e *Engine) rebuildCatalog() {
	b := NewCatalogBuilder(e.World)
	e.Game.AddActions(b)
	e.Catalog = b.Catalog()
}

// Step performs one full turn. Unmatched commands are fails-soft: fixed
// observation, zero reward, unchanged world and score.
func (e *Engine) Step(cmd string) Result {
	matched := e.stepAction(cmd)
	if !matched {
		return Result{Observation: NotUnderstood, Score: e.Score, GameOver: e.GameOver, GameWon: e.GameWon}
	}
	e.stepTick()
	reward := e.rescore()
	e.rebuildCatalog()
	return Result{Observation: e.Observation, Score: e.Score, Reward: reward, GameOver: e.GameOver, GameWon: e.GameWon}
}

// StepTrace performs one full turn like Step, additionally capturing the
// snapshot after the action phase and after the tick phase.
func (e *Engine) StepTrace(cmd string) Trace {
	matched := e.stepAction(cmd)
	if !matched {
		snap := e.Snapshot()
		return Trace{
			Result:      Result{Observation: NotUnderstood, Score: e.Score, GameOver: e.GameOver, GameWon: e.GameWon},
			AfterAction: snap,
			AfterTick:   snap,
		}
	}
	afterAction := e.Snapshot()
	e.stepTick()
	afterTick := e.Snapshot()
	reward := e.rescore()
	e.rebuildCatalog()
	return Trace{
		Result:      Result{Observation: e.Observation, Score: e.Score, Reward: reward, GameOver: e.GameOver, GameWon: e.GameWon},
		AfterAction: afterAction,
		AfterTick:   afterTick,
	}
}

// stepAction resolves and applies the command's effect. Returns false for an
// unmatched command, leaving all state untouched.
func (e *Engine) stepAction(cmd string) bool {
	actions, ok := e.Catalog.Lookup(cmd)
	if !ok || len(actions) == 0 {
		return false
	}
	e.NumSteps++
	e.LastAction = cmd

	// First-binding tie-break for ambiguous referents. Deterministic because
	// the catalog is rebuilt by the same traversal every turn.
	act := actions[0]

	switch act.Verb {
	case VerbLook:
		e.Observation = e.World.Root.Describe(false)
	case VerbInventory:
		e.Observation = e.InventoryText()
	case VerbExamine:
		e.Observation = act.Args[0].Describe(true)
	case VerbTake:
		e.Observation = e.actionTake(act.Args[0])
	case VerbPut:
		e.Observation = e.actionPut(act.Args[0], act.Args[1])
	case VerbOpen:
		e.Observation = e.actionOpen(act.Args[0])
	case VerbClose:
		e.Observation = e.actionClose(act.Args[0])
	case VerbTurnOn:
		e.Observation = e.actionTurnOn(act.Args[0])
	case VerbTurnOff:
		e.Observation = e.actionTurnOff(act.Args[0])
	case VerbUse:
		e.Observation = e.actionUse(act.Args[0], act.Args[1])
	default:
		obs, handled := e.Game.Dispatch(e, act)
		if !handled {
			e.Observation = "ERROR: Unknown action."
		} else {
			e.Observation = obs
		}
	}
	return true
}

// stepTick runs every reachable entity's tick hook exactly once,
// unconditionally, in the traversal order used for catalog building. The
// entity list is fixed before any hook runs; entities a hook detaches still
// get their tick this turn.
func (e *Engine) stepTick() {
	for _, obj := range e.World.Root.Descendants() {
		obj.Tick()
	}
}

// rescore recomputes the verdict from scratch and returns the reward. The
// termination flags are one-way latches: once over (or won), a later verdict
// never clears them within a session.
func (e *Engine) rescore() int {
	v := e.Game.Score(e.World)
	reward := v.Score - e.Score
	e.Score = v.Score
	e.GameOver = e.GameOver || v.GameOver
	e.GameWon = e.GameWon || v.GameWon
	return reward
}

// Look renders the description of the agent's visibility root.
func (e *Engine) Look() string {
	if p := e.World.Agent.Parent(); p != nil {
		return p.Describe(false)
	}
	return e.World.Root.Describe(false)
}

// InventoryText renders the agent's inventory.
func (e *Engine) InventoryText() string {
	inv := e.World.Agent.Children()
	if len(inv) == 0 {
		return "Your inventory is empty."
	}
	out := "You have the following items in your inventory:\n"
	for _, obj := range inv {
		out += "\t" + obj.Describe(false) + "\n"
	}
	return out
}

func (e *Engine) actionTake(obj *Entity) string {
	if obj.Parent() == nil {
		// A reachable entity always has a parent; a dangling argument means
		// the engine itself corrupted the tree.
		panic(fmt.Sprintf("sim: entity %q (id %d) has no parent container", obj.Name, obj.ID))
	}
	if obj == e.World.Agent {
		return "You cannot take yourself."
	}
	parent := obj.Parent()
	if parent.Container == nil {
		return "The " + parent.Name + " is not a container, so things can't be removed from it."
	}
	obs, ok := parent.Container.TakeOut(obj)
	if !ok {
		return obs
	}
	if err := e.World.Agent.AddChild(obj); err != nil {
		panic(fmt.Sprintf("sim: inventory reparent failed: %v", err))
	}
	return obs + " You put the " + obj.Referents()[0] + " in your inventory."
}

// actionPut is the one genuine two-phase mutation: the object is detached
// from its source first, then insertion into the destination is attempted; on
// failure the object is reinserted into its original parent.
func (e *Engine) actionPut(obj, dest *Entity) string {
	if !dest.Props.Bool("isContainer") || dest.Container == nil {
		return "You can't put things in the " + dest.Referents()[0] + "."
	}
	if obj.Parent() != e.World.Agent {
		return "You don't currently have the " + obj.Referents()[0] + " in your inventory."
	}
	original := obj.Parent()
	obs1, ok := original.Container.TakeOut(obj)
	if !ok {
		return obs1
	}
	obs2, ok := dest.Container.Place(obj)
	if !ok {
		// Rollback: the low-level removal already happened.
		if err := original.AddChild(obj); err != nil {
			panic(fmt.Sprintf("sim: put rollback failed: %v", err))
		}
		return obs2
	}
	return obs1 + "\n" + obs2
}

func (e *Engine) actionOpen(obj *Entity) string {
	if !obj.Props.Bool("isContainer") || obj.Container == nil {
		return "You can't open that."
	}
	obs, _ := obj.Container.Open()
	return obs
}

func (e *Engine) actionClose(obj *Entity) string {
	if !obj.Props.Bool("isContainer") || obj.Container == nil {
		return "You can't close that."
	}
	obs, _ := obj.Container.Close()
	return obs
}

func (e *Engine) actionTurnOn(obj *Entity) string {
	if !obj.Props.Bool("isDevice") || obj.Device == nil {
		return "You can't turn on that."
	}
	obs, _ := obj.Device.TurnOn()
	return obs
}

func (e *Engine) actionTurnOff(obj *Entity) string {
	if !obj.Props.Bool("isDevice") || obj.Device == nil {
		return "You can't turn off that."
	}
	obs, _ := obj.Device.TurnOff()
	return obs
}

func (e *Engine) actionUse(device, patient *Entity) string {
	if !device.Props.Bool("isDevice") || device.Device == nil {
		return "You can't use that."
	}
	obs, _ := device.Device.UseWith(patient)
	return obs
}
