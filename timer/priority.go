package timer

import (
	"fmt"
)

type Priority uint8

const (
	PriorityNormal Priority = iota
	PriorityElevated
)

func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityElevated:
		return "elevated"
	}
	return fmt.Sprintf("priority(%d)", uint8(p))
}

// SetPriority 修改定时器线程的调度优先级, 具体数值由配置给出
func (e *Engine) SetPriority(p Priority) {
	e.require(!e.irq.InIRQ(), "timer set priority: called from interrupt context")
	e.require(e.started.Load() && !e.closed.Load(), "timer set priority: timer task not started")

	var prio int
	switch p {
	case PriorityNormal:
		prio = e.conf.NormalPriority
	case PriorityElevated:
		prio = e.conf.ElevatedPriority
	default:
		e.require(false, "timer set priority: invalid level "+p.String())
	}
	err := e.callWait(func() { e.task.SetPriority(prio) })
	e.require(err == nil, fmt.Sprintf("timer set priority: %v", err))
}

func (e *Engine) Priority() Priority {
	e.require(e.started.Load(), "timer get priority: timer task not started")
	if e.task.Priority() >= e.conf.ElevatedPriority {
		return PriorityElevated
	}
	return PriorityNormal
}
