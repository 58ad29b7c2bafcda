package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/policy"
	"github.com/l1jgo/skirmish/internal/random"
)

// Engine wraps a single gopher-lua VM for policy execution.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine, publishes params as the global `config`
// table and loads every script under scriptsDir/core then scriptsDir/policy.
func NewEngine(scriptsDir string, params map[string]float64, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("stable_hash", vm.NewFunction(luaStableHash))

	cfg := vm.NewTable()
	for k, v := range params {
		cfg.RawSetString(k, lua.LNumber(v))
	}
	vm.SetGlobal("config", cfg)

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "policy"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// luaStableHash exposes random.StableHash(seed, counter) to scripts.
func luaStableHash(L *lua.LState) int {
	seed := uint32(L.CheckNumber(1))
	counter := uint32(L.CheckNumber(2))
	L.Push(lua.LNumber(random.StableHash(seed, counter)))
	return 1
}

// HasFunction reports whether a global Lua function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// AttackTicks calls the Lua attack_ticks(distance) function.
func (e *Engine) AttackTicks(distance float32) (int32, bool) {
	v, ok := e.call("attack_ticks", lua.LNumber(distance))
	if !ok {
		return 0, false
	}
	n, isNum := v.(lua.LNumber)
	if !isNum || math.IsNaN(float64(n)) {
		e.log.Error("lua attack_ticks returned non-number", zap.String("value", v.String()))
		return 0, false
	}
	// Negative flights resolve like 0; huge ones saturate.
	return policy.ClampTicks(math.Ceil(float64(n)), 0, 0), true
}

// VelocityContext holds the pre-packed unit state passed to unit_velocity.
type VelocityContext struct {
	X, Y      float32
	ID        uint32
	Seed      uint32
	SpawnTick int64
	Tick      int64
}

// UnitVelocity calls the Lua unit_velocity(ctx) function, which returns a
// table {x=, y=}.
func (e *Engine) UnitVelocity(ctx VelocityContext) (component.Vec2, bool) {
	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("id", lua.LNumber(ctx.ID))
	t.RawSetString("seed", lua.LNumber(ctx.Seed))
	t.RawSetString("spawn_tick", lua.LNumber(ctx.SpawnTick))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))

	v, ok := e.call("unit_velocity", t)
	if !ok {
		return component.Vec2{}, false
	}
	rt, isTable := v.(*lua.LTable)
	if !isTable {
		e.log.Error("lua unit_velocity returned non-table")
		return component.Vec2{}, false
	}
	return component.Vec2{X: lFloat(rt, "x"), Y: lFloat(rt, "y")}, true
}

func (e *Engine) call(name string, args ...lua.LValue) (lua.LValue, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return lua.LNil, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return lua.LNil, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, true
}

// --- Lua helpers ---

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float32 {
	return float32(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
