// Package bench is the outer harness around the simulation: it builds the
// world from configuration, drives ticks, measures throughput and collects
// the per-run statistics and state digest.
package bench

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/policy"
	"github.com/l1jgo/skirmish/internal/render"
	"github.com/l1jgo/skirmish/internal/scripting"
	"github.com/l1jgo/skirmish/internal/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// FrameFunc is called after every tick. Returning false stops the run early.
type FrameFunc func(tick int) bool

// Context owns one simulation for its Setup, Run, Cleanup lifecycle.
type Context struct {
	cfg *config.Config
	log *zap.Logger

	State  *world.State
	Bus    *event.Bus
	Runner *coresys.Runner
	Stats  *Stats

	fb     render.Framebuffer
	grid   *render.Grid // own framebuffer when none is supplied
	engine *scripting.Engine
	ticks  int
}

// NewContext prepares a context. fb receives the render output; nil selects
// an in-memory grid sized to the world.
func NewContext(cfg *config.Config, fb render.Framebuffer, log *zap.Logger) *Context {
	return &Context{cfg: cfg, fb: fb, log: log}
}

// Setup loads the unit table and policies, builds the pipeline and creates
// the initial population.
func (c *Context) Setup() error {
	sim := c.cfg.Simulation

	set, err := c.policies()
	if err != nil {
		return err
	}

	if c.fb == nil {
		c.grid = render.NewGrid(sim.WorldWidth, sim.WorldHeight)
		c.fb = c.grid
	}

	c.State = world.NewState(sim.EntityCount * 2)
	c.Bus = event.NewBus()
	c.Stats = NewStats(c.Bus)
	c.Runner = coresys.NewRunner(c.State.World)
	system.RegisterAll(c.Runner, system.Deps{
		State:        c.State,
		Bus:          c.Bus,
		Policies:     set,
		Framebuffer:  c.fb,
		RespawnDelay: sim.RespawnDelay,
	})
	c.State.Populate(sim.EntityCount)
	c.ticks = 0

	c.log.Info("simulation ready",
		zap.Int("entities", sim.EntityCount),
		zap.Int("ticks", sim.Ticks),
		zap.Int64("respawn_delay", sim.RespawnDelay),
		zap.Strings("systems", c.Runner.Order()),
		zap.Bool("scripted", c.engine != nil),
	)
	return nil
}

func (c *Context) policies() (policy.Set, error) {
	sim := c.cfg.Simulation
	w, h := float32(sim.WorldWidth), float32(sim.WorldHeight)

	table := data.DefaultUnitTable()
	if path := c.cfg.Data.UnitList; path != "" {
		t, err := data.LoadUnitTable(path)
		if err != nil {
			return policy.Set{}, fmt.Errorf("load unit table: %w", err)
		}
		table = t
	}
	c.log.Debug("unit table loaded", zap.Int("archetypes", table.Count()), zap.Int("total_weight", table.TotalWeight()))

	timing := policy.AttackTiming{
		Speed:    c.cfg.Attack.Speed,
		MinTicks: c.cfg.Attack.MinTicks,
		MaxTicks: c.cfg.Attack.MaxTicks,
	}
	patrol := policy.Patrol{
		Speed:        c.cfg.Movement.Speed,
		TurnInterval: c.cfg.Movement.TurnInterval,
		Width:        w,
		Height:       h,
	}
	spawner := policy.Spawner{Table: table, Width: w, Height: h}
	set := policy.Set{
		Spawn:       spawner.Spawn,
		AttackTicks: timing.Ticks,
		Velocity:    patrol.Velocity,
	}

	if !c.cfg.Scripting.Enabled {
		return set, nil
	}
	engine, err := scripting.NewEngine(c.cfg.Scripting.Dir, scriptParams(c.cfg), c.log)
	if err != nil {
		return policy.Set{}, fmt.Errorf("lua engine: %w", err)
	}
	c.engine = engine
	return engine.Policies(set), nil
}

// scriptParams exposes the tuning values to Lua as the config table.
func scriptParams(cfg *config.Config) map[string]float64 {
	return map[string]float64{
		"attack_speed":  float64(cfg.Attack.Speed),
		"attack_min":    float64(cfg.Attack.MinTicks),
		"attack_max":    float64(cfg.Attack.MaxTicks),
		"move_speed":    float64(cfg.Movement.Speed),
		"turn_interval": float64(cfg.Movement.TurnInterval),
		"world_width":   float64(cfg.Simulation.WorldWidth),
		"world_height":  float64(cfg.Simulation.WorldHeight),
	}
}

// Step runs one full tick.
func (c *Context) Step() {
	if c.grid != nil {
		c.grid.Clear()
	}
	c.Runner.Tick()
	c.ticks++
}

// Ticks returns how many ticks have run since Setup.
func (c *Context) Ticks() int { return c.ticks }

// Frame returns the in-memory framebuffer, or nil when an external one was
// supplied.
func (c *Context) Frame() *render.Grid { return c.grid }

// Run executes the configured number of ticks and returns the report. The
// run stops early when ctx is cancelled or frame returns false.
func (c *Context) Run(ctx context.Context, frame FrameFunc) (*Report, error) {
	total := c.cfg.Simulation.Ticks
	every := c.cfg.Report.ProgressEvery

	var runErr error
	start := time.Now()
	for c.ticks < total {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		c.Step()
		if every > 0 && c.ticks%every == 0 {
			c.log.Info("progress",
				zap.Int("tick", c.ticks),
				zap.Int("attacks_in_flight", c.State.Attacks.Len()),
				zap.Int("dead", c.State.Deads.Len()),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		if frame != nil && !frame(c.ticks) {
			c.log.Info("run stopped", zap.Int("tick", c.ticks))
			break
		}
	}
	elapsed := time.Since(start)

	// Deliver events of the final tick before reading the counters.
	c.Bus.Flush()
	return c.report(elapsed), runErr
}

func (c *Context) report(elapsed time.Duration) *Report {
	return &Report{
		Params:    ParamsKey(c.cfg),
		Entities:  c.cfg.Simulation.EntityCount,
		Ticks:     c.ticks,
		Elapsed:   elapsed,
		Alive:     c.State.Units.Len() - c.State.Deads.Len(),
		Kills:     c.Stats.Kills,
		Respawns:  c.Stats.Respawns,
		Landed:    c.Stats.Landed,
		Discarded: c.Stats.Discarded,
		Digest:    Digest(c.State),
	}
}

// Cleanup releases the scripting engine.
func (c *Context) Cleanup() {
	if c.engine != nil {
		c.engine.Close()
		c.engine = nil
	}
}
