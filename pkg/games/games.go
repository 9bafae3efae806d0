// Package games registers the available game definitions.
package games

import (
	"fmt"
	"sort"

	"github.com/simbench/microsim/pkg/games/balancescale"
	"github.com/simbench/microsim/pkg/games/dishwasher"
	"github.com/simbench/microsim/pkg/sim"
)

var registry = map[string]func() sim.Game{
	"balance-scale": func() sim.Game { return balancescale.New(balancescale.Config{}) },
	"dishwasher":    func() sim.Game { return dishwasher.New(dishwasher.Config{}) },
}

// New creates a fresh game definition by name.
func New(name string) (sim.Game, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown game %q", name)
	}
	return ctor(), nil
}

// Names lists the registered games in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
