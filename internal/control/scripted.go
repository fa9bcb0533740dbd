package control

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/geom"
	"github.com/l1jgo/skirmish/internal/scripting"
)

// Steerer is the AI decision function; *scripting.Engine implements it.
type Steerer interface {
	Steer(ctx scripting.SteerContext) scripting.SteerResult
}

// ScriptedController lets a script pick direction and fire on every Think
// event. All other events pass through unconsumed.
type ScriptedController struct {
	AI Steerer
}

func NewScriptedController(ai Steerer) *ScriptedController {
	return &ScriptedController{AI: ai}
}

func (c *ScriptedController) HandleInput(ev InputEvent, k *component.Kinematic, in *component.InputState) bool {
	if ev.Kind != Think {
		return false
	}
	res := c.AI.Steer(scripting.SteerContext{
		X:         k.Position[0],
		Y:         k.Position[1],
		TargetX:   ev.Point[0],
		TargetY:   ev.Point[1],
		HasTarget: ev.HasTarget,
		CanFire:   in.Cooldown == 0,
		Speed:     in.MoveSpeed,
	})

	dir := mgl32.Vec2{res.DX, res.DY}
	if dir.Len() == 0 {
		k.Speed = 0
	} else {
		k.Direction = geom.NormalizeOr(dir, geom.DefaultDirection)
		k.Speed = in.MoveSpeed
	}
	if res.Fire && ev.HasTarget {
		in.Fire = &component.FireRequest{Target: ev.Point}
	}
	return true
}
