package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/skirmish/internal/bench"
	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/persist"
	"github.com/l1jgo/skirmish/internal/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/skirmish.toml"
	if p := os.Getenv("SKIRMISH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Optional terminal view
	var (
		fb    render.Framebuffer
		term  *render.Terminal
		frame bench.FrameFunc
	)
	simLog := log
	if cfg.Render.Watch {
		term, err = render.OpenTerminal(cfg.Simulation.WorldWidth, cfg.Simulation.WorldHeight)
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		fb = term
		frame = watchFrame(term, cfg)
		// Info lines would tear the screen.
		simLog = log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	closeTerm := func() {
		if term != nil {
			term.Close()
			term = nil
		}
	}
	defer closeTerm()

	// 4. Build and run the simulation
	bc := bench.NewContext(cfg, fb, simLog)
	if err := bc.Setup(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	defer bc.Cleanup()

	report, err := bc.Run(ctx, frame)
	closeTerm()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run: %w", err)
	}

	log.Info("run complete",
		zap.Int("entities", report.Entities),
		zap.Int("ticks", report.Ticks),
		zap.Duration("elapsed", report.Elapsed),
		zap.Float64("ticks_per_sec", report.TicksPerSecond()),
		zap.Int("kills", report.Kills),
		zap.Int("respawns", report.Respawns),
		zap.String("digest", report.Digest),
	)
	fmt.Print(report.Format(bench.ParseLanguage(cfg.Report.Language)))

	// 5. Record the run
	if cfg.Database.DSN == "" {
		return nil
	}
	if report.Ticks < cfg.Simulation.Ticks {
		log.Warn("run incomplete, not recorded", zap.Int("ticks", report.Ticks))
		return nil
	}
	if err := record(cfg.Database, report, log); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// watchFrame presents every tick on the terminal and stops on any key.
func watchFrame(term *render.Terminal, cfg *config.Config) bench.FrameFunc {
	total := cfg.Simulation.Ticks
	delay := cfg.Render.FrameDelay
	return func(tick int) bool {
		term.Show(fmt.Sprintf(" tick %d/%d  (any key to stop) ", tick, total))
		if delay > 0 {
			time.Sleep(delay)
		}
		return !term.KeyPressed()
	}
}

func record(cfg config.DatabaseConfig, report *bench.Report, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	schema, err := persist.RunMigrations(ctx, db.Pool)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if schema.Changed() {
		log.Info("run schema migrated",
			zap.Int64("from", schema.From),
			zap.Int64("to", schema.To),
			zap.Int64s("applied", schema.Applied),
		)
	}

	repo := persist.NewRunRepo(db)
	prev, err := repo.LastRun(ctx, report.Params)
	if err != nil {
		return fmt.Errorf("previous run: %w", err)
	}

	id, err := repo.Insert(ctx, &persist.RunRow{
		Params:      report.Params,
		Entities:    report.Entities,
		Ticks:       report.Ticks,
		Elapsed:     report.Elapsed,
		TicksPerSec: report.TicksPerSecond(),
		Alive:       report.Alive,
		Kills:       report.Kills,
		Respawns:    report.Respawns,
		Landed:      report.Landed,
		Discarded:   report.Discarded,
		Digest:      report.Digest,
	})
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	switch {
	case prev == nil:
		log.Info("run recorded", zap.Int64("id", id))
	case prev.Digest == report.Digest:
		log.Info("run recorded, digest matches previous run",
			zap.Int64("id", id),
			zap.Int64("previous_id", prev.ID),
			zap.Float64("previous_ticks_per_sec", prev.TicksPerSec),
		)
	default:
		log.Warn("digest differs from previous run with the same parameters",
			zap.Int64("id", id),
			zap.Int64("previous_id", prev.ID),
			zap.String("previous", prev.Digest),
			zap.String("current", report.Digest),
		)
	}

	if cfg.KeepRuns > 0 {
		pruned, err := repo.Prune(ctx, cfg.KeepRuns)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		if pruned > 0 {
			log.Debug("old runs pruned", zap.Int64("deleted", pruned), zap.Int("keep", cfg.KeepRuns))
		}
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
