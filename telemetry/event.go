// Package telemetry fans session events out to logs and spectators.
package telemetry

const (
	EventDied             = "died"
	EventSpawned          = "spawned"
	EventTelegraph        = "telegraph"
	EventWaveStarted      = "wave_started"
	EventWaveCleared      = "wave_cleared"
	EventBossFightStarted = "boss_fight_started"
	EventBossFightEnded   = "boss_fight_ended"
	EventBossPhase        = "boss_phase"
	EventTargetHit        = "target_hit"
)

// Event is the JSON payload broadcast to spectators.
type Event struct {
	Type      string  `json:"type"`
	Time      float64 `json:"time"`
	Entity    uint64  `json:"entity,omitempty"`
	Archetype string  `json:"archetype,omitempty"`
	Wave      int     `json:"wave,omitempty"`
	Phase     string  `json:"phase,omitempty"`
	Attack    string  `json:"attack,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
}
