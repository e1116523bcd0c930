package ecs

// System advances one concern of the world by dt seconds.
type System interface {
	Update(w *World, dt float64)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Update(w *World, dt float64) { f(w, dt) }

// Scheduler runs fixed-step systems from an accumulator and then the
// per-frame systems once with the raw frame delta.
type Scheduler struct {
	fixed    []System
	frame    []System
	step     float64
	acc      float64
	maxSteps int
}

// NewScheduler creates a scheduler with the given fixed step in seconds.
func NewScheduler(step float64) *Scheduler {
	if step <= 0 {
		step = 1.0 / 60.0
	}
	return &Scheduler{step: step, maxSteps: 8}
}

// AddFixed appends a system to the fixed-step phase.
func (s *Scheduler) AddFixed(system System) {
	if system == nil {
		return
	}
	s.fixed = append(s.fixed, system)
}

// Add appends a system to the per-frame phase.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.frame = append(s.frame, system)
}

// Step returns the fixed step length.
func (s *Scheduler) Step() float64 {
	return s.step
}

// Update runs as many fixed steps as dt allows (bounded so a long stall
// cannot spiral) followed by the frame systems. It returns the number of
// fixed steps executed.
func (s *Scheduler) Update(w *World, dt float64) int {
	if dt < 0 {
		dt = 0
	}
	s.acc += dt
	steps := 0
	for s.acc+1e-9 >= s.step && steps < s.maxSteps {
		for _, system := range s.fixed {
			system.Update(w, s.step)
		}
		s.acc -= s.step
		steps++
	}
	if steps == s.maxSteps && s.acc > s.step {
		s.acc = 0
	}
	if s.acc < 0 {
		s.acc = 0
	}
	for _, system := range s.frame {
		system.Update(w, dt)
	}
	return steps
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.fixed)+len(s.frame))
	systems = append(systems, s.fixed...)
	return append(systems, s.frame...)
}
