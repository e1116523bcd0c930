package actor

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/ecs"
)

// DamageEvent describes one application of damage.
type DamageEvent struct {
	Amount    float64
	Knockback float64
	Source    ecs.Entity
	Origin    cp.Vector
	HasOrigin bool
}

// Health is shared by enemies and targets. Listeners run synchronously in
// the tick that applied the damage.
type Health struct {
	Max     float64
	Current float64
	Dead    bool

	// KnockbackResistance in [0,1]. At 1 the owner is stun-immune and
	// ignores knockback.
	KnockbackResistance float64

	onDamage []func(h *Health, evt DamageEvent)
	onDeath  []func(h *Health, evt DamageEvent)
}

// NewHealth creates a Health with max/current initialized.
func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the owner is alive.
func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead && h.Current > 0
}

// StunImmune reports whether damage should never interrupt the owner.
func (h *Health) StunImmune() bool {
	return h != nil && h.KnockbackResistance >= 1
}

// Fraction returns Current/Max in [0,1].
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

// OnDamageTaken registers a listener for non-lethal and lethal hits alike.
func (h *Health) OnDamageTaken(fn func(h *Health, evt DamageEvent)) {
	if fn != nil {
		h.onDamage = append(h.onDamage, fn)
	}
}

// OnDeath registers a listener fired once when Current reaches zero.
func (h *Health) OnDeath(fn func(h *Health, evt DamageEvent)) {
	if fn != nil {
		h.onDeath = append(h.onDeath, fn)
	}
}

// ApplyDamage applies amount with the given knockback and no origin.
func (h *Health) ApplyDamage(amount, knockback float64) bool {
	return h.Apply(DamageEvent{Amount: amount, Knockback: knockback})
}

// Apply applies damage. Returns true if damage was applied.
func (h *Health) Apply(evt DamageEvent) bool {
	if h == nil || h.Dead || evt.Amount <= 0 {
		return false
	}
	h.Current -= evt.Amount
	if h.Current < 0 {
		h.Current = 0
	}
	for _, fn := range h.onDamage {
		fn(h, evt)
	}
	if h.Current <= 0 && !h.Dead {
		h.Dead = true
		for _, fn := range h.onDeath {
			fn(h, evt)
		}
	}
	return true
}

// Heal restores health up to Max.
func (h *Health) Heal(amount float64) {
	if h == nil || h.Dead || amount <= 0 {
		return
	}
	h.Current = min(h.Current+amount, h.Max)
}

// SetMax rescales Max and keeps the current fraction.
func (h *Health) SetMax(v float64) {
	if h == nil {
		return
	}
	if v <= 0 {
		v = 1
	}
	frac := h.Fraction()
	h.Max = v
	h.Current = v * frac
}
