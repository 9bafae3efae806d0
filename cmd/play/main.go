// Command play is an interactive terminal client for the simulation engine.
// It runs a game locally, no server required.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simbench/microsim/pkg/games"
	"github.com/simbench/microsim/pkg/sim"
)

func main() {
	gameName := flag.String("game", "", "game to play (skips the picker)")
	seed := flag.Int64("seed", 0, "world seed (0 uses the current time)")
	flag.Parse()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	var eng *sim.Engine
	if *gameName != "" {
		game, err := games.New(*gameName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\nAvailable games: %v\n", err, games.Names())
			os.Exit(1)
		}
		eng = sim.NewEngine(game, s)
	}

	p := tea.NewProgram(NewPlayUI(eng, *gameName, s),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
