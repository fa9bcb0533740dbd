package scripting

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed scripts/ai/*.lua
var builtin embed.FS

// Engine wraps a single gopher-lua VM for controller logic.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine, loads the built-in AI scripts and then
// every script under scriptsDir/ai, so files on disk override built-ins.
// An empty scriptsDir loads only the built-ins.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	e := &Engine{vm: vm, log: log}

	if err := e.loadBuiltin(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load builtin scripts: %w", err)
	}
	if scriptsDir != "" {
		if err := e.loadDir(filepath.Join(scriptsDir, "ai")); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load ai scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) loadBuiltin() error {
	entries, err := builtin.ReadDir("scripts/ai")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := "scripts/ai/" + entry.Name()
		src, err := builtin.ReadFile(path)
		if err != nil {
			return err
		}
		if err := e.LoadString(path, string(src)); err != nil {
			return err
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
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

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(name, src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", name))
	return nil
}

// SteerContext holds pre-packed data for one enemy_steer call.
type SteerContext struct {
	X, Y             float32
	TargetX, TargetY float32
	HasTarget        bool
	CanFire          bool
	Speed            float32
}

// SteerResult is returned by the Lua steering function. DX/DY need not be
// normalized.
type SteerResult struct {
	DX, DY float32
	Fire   bool
}

// Steer calls the Lua enemy_steer function. Script errors are logged and
// produce a zero (stand still, hold fire) result.
func (e *Engine) Steer(ctx SteerContext) SteerResult {
	fn := e.vm.GetGlobal("enemy_steer")
	if fn == lua.LNil {
		e.log.Error("lua function enemy_steer not found")
		return SteerResult{}
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("target_x", lua.LNumber(ctx.TargetX))
	t.RawSetString("target_y", lua.LNumber(ctx.TargetY))
	t.RawSetString("has_target", lua.LBool(ctx.HasTarget))
	t.RawSetString("can_fire", lua.LBool(ctx.CanFire))
	t.RawSetString("speed", lua.LNumber(ctx.Speed))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua enemy_steer error", zap.Error(err))
		return SteerResult{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua enemy_steer returned non-table")
		return SteerResult{}
	}

	return SteerResult{
		DX:   lFloat(rt, "dx"),
		DY:   lFloat(rt, "dy"),
		Fire: lua.LVAsBool(rt.RawGetString("fire")),
	}
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
