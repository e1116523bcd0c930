package combat

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/hordewave/prefabs"
)

// Selector picks among the attacks whose range window matches. It returns
// an index into candidates; out-of-range answers fall back to 0.
type Selector interface {
	Choose(candidates []prefabs.AttackSpec, distance float64) int
}

// FirstMatch picks the first matching attack in archetype order.
type FirstMatch struct{}

func (FirstMatch) Choose([]prefabs.AttackSpec, float64) int { return 0 }

// ScriptSelector delegates the choice to a tengo script. The script sees
// `candidates` (array of maps with name, kind, damage, min_range and
// max_range) and `distance`, and assigns `choice`.
type ScriptSelector struct {
	name     string
	compiled *tengo.Compiled
	logger   *slog.Logger
}

func NewScriptSelector(name string, src []byte, logger *slog.Logger) (*ScriptSelector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	script := tengo.NewScript(src)
	_ = script.Add("candidates", []any{})
	_ = script.Add("distance", 0.0)
	_ = script.Add("choice", 0)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("combat: compile %s: %w", name, err)
	}
	return &ScriptSelector{
		name:     name,
		compiled: compiled,
		logger:   logger.With("subsystem", "combat", "script", name),
	}, nil
}

func (s *ScriptSelector) Choose(candidates []prefabs.AttackSpec, distance float64) int {
	if s == nil || len(candidates) < 2 {
		return 0
	}
	list := make([]any, len(candidates))
	for i, c := range candidates {
		list[i] = map[string]any{
			"name":      c.Name,
			"kind":      c.Kind,
			"damage":    c.Damage,
			"min_range": c.MinRange,
			"max_range": c.MaxRange,
		}
	}
	if err := s.set(list, distance); err != nil {
		s.logger.Warn("attack script setup failed", "err", err)
		return 0
	}
	if err := s.compiled.Run(); err != nil {
		s.logger.Warn("attack script failed", "err", err)
		return 0
	}
	v := s.compiled.Get("choice")
	if v.ValueType() == "string" {
		name := strings.TrimSpace(v.String())
		for i, c := range candidates {
			if c.Name == name {
				return i
			}
		}
		return 0
	}
	idx := v.Int()
	if idx < 0 || idx >= len(candidates) {
		return 0
	}
	return idx
}

func (s *ScriptSelector) set(list []any, distance float64) error {
	if err := s.compiled.Set("candidates", list); err != nil {
		return err
	}
	if err := s.compiled.Set("distance", distance); err != nil {
		return err
	}
	return s.compiled.Set("choice", 0)
}
