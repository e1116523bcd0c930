package actor

// Modifiers scales the base stats of an enemy. Bosses supply phase-driven
// values; everyone else uses Unmodified.
type Modifiers interface {
	SpeedMultiplier() float64
	DamageMultiplier() float64
	CooldownMultiplier() float64
}

type Unmodified struct{}

func (Unmodified) SpeedMultiplier() float64    { return 1 }
func (Unmodified) DamageMultiplier() float64   { return 1 }
func (Unmodified) CooldownMultiplier() float64 { return 1 }

// OrUnmodified returns m, or Unmodified when m is nil.
func OrUnmodified(m Modifiers) Modifiers {
	if m == nil {
		return Unmodified{}
	}
	return m
}

// ModifierFunc lets a late-bound source (such as a boss augment attached
// after construction) stand in for a fixed Modifiers value.
type ModifierFunc func() Modifiers

func (f ModifierFunc) SpeedMultiplier() float64    { return OrUnmodified(f()).SpeedMultiplier() }
func (f ModifierFunc) DamageMultiplier() float64   { return OrUnmodified(f()).DamageMultiplier() }
func (f ModifierFunc) CooldownMultiplier() float64 { return OrUnmodified(f()).CooldownMultiplier() }
