// Command crawl replays scripted playthroughs and emits the per-step state
// records the evaluation harness trains and scores against: the snapshot
// before the step, after the action phase, and after the tick phase, plus the
// score transition.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/simbench/microsim/internal/config"
	"github.com/simbench/microsim/internal/logger"
	"github.com/simbench/microsim/internal/storage"
	"github.com/simbench/microsim/pkg/games"
	"github.com/simbench/microsim/pkg/sim"
)

// Manifest is the YAML run description: which games to crawl, with which
// seeds and gold action sequences.
type Manifest struct {
	Sessions []SessionSpec `yaml:"sessions"`
}

type SessionSpec struct {
	Game    string   `yaml:"game"`
	Seed    int64    `yaml:"seed"`
	Actions []string `yaml:"actions"`
}

// StateRecord is one line of crawl output.
type StateRecord struct {
	Game         string        `json:"game"`
	Session      uuid.UUID     `json:"session"`
	StateID      int           `json:"state_id"`
	Action       string        `json:"action"`
	CurrentState *sim.Snapshot `json:"current_state"`
	ActionState  *sim.Snapshot `json:"action_state"`
	TickState    *sim.Snapshot `json:"tick_state"`
	CurrentScore sim.Verdict   `json:"current_score_state"`
	NextScore    sim.Verdict   `json:"next_score_state"`
	Diff         *sim.Diff     `json:"diff"`
}

func main() {
	manifestPath := flag.String("manifest", "", "path to the run manifest (default: <DATA_DIR>/crawl.yaml)")
	outPath := flag.String("out", "data.jsonl", "output JSONL path")
	useStore := flag.Bool("store", false, "also persist snapshots to Redis (REDIS_URL)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg)

	if *manifestPath == "" {
		*manifestPath = filepath.Join(cfg.DataDir, "crawl.yaml")
	}

	if err := run(*manifestPath, *outPath, *useStore, cfg, log); err != nil {
		logger.WithError(log, err).Error("crawl failed")
		os.Exit(1)
	}
}

func run(manifestPath, outPath string, useStore bool, cfg *config.Config, log *slog.Logger) error {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(manifest.Sessions) == 0 {
		return fmt.Errorf("manifest %s declares no sessions", manifestPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()
	enc := json.NewEncoder(out)

	ctx := context.Background()

	var store storage.Store
	if useStore {
		rs := storage.NewRedisStore(cfg.RedisURL, log)
		if err := rs.WaitForConnection(ctx); err != nil {
			return err
		}
		defer func() {
			_ = rs.Close()
		}()
		store = rs
	}

	stateID := 0
	for _, spec := range manifest.Sessions {
		n, err := crawlSession(ctx, spec, enc, store, &stateID, log)
		if err != nil {
			return fmt.Errorf("session %s: %w", spec.Game, err)
		}
		log.Info("crawled session", "game", spec.Game, "seed", spec.Seed, "records", n)
	}
	log.Info("crawl complete", "records", stateID, "out", outPath)
	return nil
}

func crawlSession(ctx context.Context, spec SessionSpec, enc *json.Encoder, store storage.Store, stateID *int, log *slog.Logger) (int, error) {
	game, err := games.New(spec.Game)
	if err != nil {
		return 0, err
	}
	eng := sim.NewEngine(game, spec.Seed)

	current := eng.Snapshot()
	if store != nil {
		if err := store.SaveSnapshot(ctx, eng.ID, 0, current); err != nil {
			return 0, err
		}
	}

	written := 0
	for i, action := range spec.Actions {
		currentScore := eng.ScoreState()
		trace := eng.StepTrace(action)
		if trace.Result.Observation == sim.NotUnderstood {
			log.Warn("action not in catalog", "game", spec.Game, "step", i+1, "action", action)
		}

		rec := StateRecord{
			Game:         spec.Game,
			Session:      eng.ID,
			StateID:      *stateID,
			Action:       action,
			CurrentState: current,
			ActionState:  trace.AfterAction,
			TickState:    trace.AfterTick,
			CurrentScore: currentScore,
			NextScore:    eng.ScoreState(),
			Diff:         sim.ComputeDiff(current, trace.AfterTick),
		}
		if err := enc.Encode(rec); err != nil {
			return written, fmt.Errorf("failed to write record: %w", err)
		}
		*stateID++
		written++

		current = trace.AfterTick
		if store != nil {
			if err := store.SaveSnapshot(ctx, eng.ID, i+1, current); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}
