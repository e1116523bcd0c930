package behavior

import "fmt"

type State int

const (
	Idle State = iota
	Patrol
	Alert
	Chase
	Attack
	Cooldown
	Stunned
	Dead
)

var stateNames = [...]string{
	Idle:     "idle",
	Patrol:   "patrol",
	Alert:    "alert",
	Chase:    "chase",
	Attack:   "attack",
	Cooldown: "cooldown",
	Stunned:  "stunned",
	Dead:     "dead",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config holds the state timers in seconds.
type Config struct {
	IdleTime     float64
	AlertDelay   float64
	Cooldown     float64
	StunDuration float64
}
