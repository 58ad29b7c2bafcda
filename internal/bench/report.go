package bench

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/l1jgo/skirmish/internal/config"
)

// Report summarises one run.
type Report struct {
	Params    string
	Entities  int
	Ticks     int
	Elapsed   time.Duration
	Alive     int
	Kills     int
	Respawns  int
	Landed    int
	Discarded int
	Digest    string
}

// TicksPerSecond is the measured throughput, 0 for an empty run.
func (r *Report) TicksPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ticks) / r.Elapsed.Seconds()
}

// EntityTicksPerSecond is throughput scaled by population.
func (r *Report) EntityTicksPerSecond() float64 {
	return r.TicksPerSecond() * float64(r.Entities)
}

// Format renders the report with locale-aware number grouping.
func (r *Report) Format(tag language.Tag) string {
	p := message.NewPrinter(tag)
	var b strings.Builder
	line := func(label, format string, args ...any) {
		fmt.Fprintf(&b, "%-16s", label)
		p.Fprintf(&b, format+"\n", args...)
	}
	line("entities", "%d", r.Entities)
	line("ticks", "%d", r.Ticks)
	line("elapsed", "%v", r.Elapsed.Round(time.Microsecond))
	line("ticks/s", "%.1f", r.TicksPerSecond())
	line("entity-ticks/s", "%.0f", r.EntityTicksPerSecond())
	line("alive", "%d", r.Alive)
	line("kills", "%d", r.Kills)
	line("respawns", "%d", r.Respawns)
	line("attacks", "%d landed, %d discarded", r.Landed, r.Discarded)
	fmt.Fprintf(&b, "%-16s%s\n", "digest", r.Digest)
	return b.String()
}

// ParseLanguage resolves a configured tag, falling back to English.
func ParseLanguage(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// ParamsKey identifies the inputs that determine a run's outcome. Two runs
// with equal keys must produce equal digests.
func ParamsKey(cfg *config.Config) string {
	s := cfg.Simulation
	return fmt.Sprintf("n=%d t=%d rd=%d w=%d h=%d atk=%g/%d/%d mv=%g/%d units=%s lua=%t:%s",
		s.EntityCount, s.Ticks, s.RespawnDelay, s.WorldWidth, s.WorldHeight,
		cfg.Attack.Speed, cfg.Attack.MinTicks, cfg.Attack.MaxTicks,
		cfg.Movement.Speed, cfg.Movement.TurnInterval,
		cfg.Data.UnitList, cfg.Scripting.Enabled, scriptDir(cfg))
}

func scriptDir(cfg *config.Config) string {
	if !cfg.Scripting.Enabled {
		return ""
	}
	return cfg.Scripting.Dir
}
