package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseBarrier   Phase = iota // 0: apply queued spawns/despawns
	PhaseInput                  // 1: controllers consume input events
	PhaseIntegrate              // 2: position update
	PhaseCollide                // 3: broad + narrow phase, record events
	PhaseResolve                // 4: consume collision events
	PhaseOutput                 // 5: event dispatch, stats
)

func (p Phase) String() string {
	switch p {
	case PhaseBarrier:
		return "barrier"
	case PhaseInput:
		return "input"
	case PhaseIntegrate:
		return "integrate"
	case PhaseCollide:
		return "collide"
	case PhaseResolve:
		return "resolve"
	case PhaseOutput:
		return "output"
	default:
		return "unknown"
	}
}

// System is the interface every ECS system implements. A returned error
// is fatal for the tick.
type System interface {
	Phase() Phase
	Update(dt time.Duration) error
}
