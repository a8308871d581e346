package scheduler

type State int32

const (
	StateIdle State = iota
	StateRunningTick
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunningTick:
		return "RUNNING_TICK"
	case StateSleeping:
		return "SLEEPING"
	case StateStopped:
		return "STOPPED"
	}
	return "State(?)"
}
