package wave

// Progress is the plain numeric state handed to a save system.
type Progress struct {
	Wave  int `json:"wave"`
	Kills int `json:"kills"`
}

func (o *Orchestrator) Snapshot() Progress {
	return Progress{Wave: o.wave, Kills: o.kills}
}

// Restore seeds the counters before Start. It is ignored once waves run.
func (o *Orchestrator) Restore(p Progress) bool {
	if o.state != Idle {
		return false
	}
	o.wave = max(p.Wave, 0)
	o.kills = max(p.Kills, 0)
	return true
}
