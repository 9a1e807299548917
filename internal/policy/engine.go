package policy

import (
	"log/slog"
	"strings"

	"github.com/talgya/polity/internal/entropy"
)

// RatingScale is the ordered qualitative rating of departments and services.
var RatingScale = []string{"Very Poor", "Poor", "Fair", "Good", "Excellent"}

// MoodScale is the ordered public mood.
var MoodScale = []string{"Furious", "Angry", "Unhappy", "Neutral", "Content", "Happy", "Elated"}

const (
	budgetKey  = "budget"
	expenseKey = "expenseAllocations"
	taxKey     = "taxRates"
)

// Engine applies effects. Recurring effects are remembered and reapplied on each
// TickRecurring. Not safe for concurrent use.
type Engine struct {
	rng       entropy.Source
	recurring []Descriptor
}

// NewEngine creates an engine drawing chance rolls from rng.
func NewEngine(rng entropy.Source) *Engine {
	return &Engine{rng: rng}
}

// Apply mutates state by one effect. It returns false when the effect was guarded out:
// a failed chance roll, a path through a non-object, or a non-numeric target for an
// arithmetic effect.
func (e *Engine) Apply(state *State, d Descriptor) bool {
	return e.apply(state, d, true)
}

func (e *Engine) apply(state *State, d Descriptor, register bool) bool {
	if d.Effect == nil {
		return false
	}
	if d.Chance != nil && e.rng.Float64() > *d.Chance {
		slog.Debug("effect skipped by chance", "path", d.Path, "chance", *d.Chance)
		return false
	}

	block := state.Block(d.Level)
	if block == nil {
		slog.Debug("effect on unknown level skipped", "level", d.Level)
		return false
	}

	target := block
	switch {
	case d.IsBudgetItem:
		target = ensureMap(ensureMap(block, budgetKey), expenseKey)
	case d.IsTaxRate:
		target = ensureMap(ensureMap(block, budgetKey), taxKey)
	}

	parent, key, ok := resolve(target, d.Path)
	if !ok {
		slog.Debug("effect path blocked", "level", d.Level, "path", d.Path)
		return false
	}

	switch eff := d.Effect.(type) {
	case LevelChange:
		parent[key] = stepScale(RatingScale, parent[key], eff.Steps)
	case ConditionalLevelChange:
		parent[key] = stepScale(RatingScale, parent[key],
			conditionalSteps(d.Params, eff.Param, eff.Threshold, eff.Steps, eff.ElseSteps))
	case MoodShift:
		parent[key] = stepScale(MoodScale, parent[key], eff.Steps)
	case ConditionalMoodShift:
		parent[key] = stepScale(MoodScale, parent[key],
			conditionalSteps(d.Params, eff.Param, eff.Threshold, eff.Steps, eff.ElseSteps))
	case PercentagePointChange:
		cur, present := parent[key]
		n, numeric := toFloat(cur)
		if present && !numeric {
			return false
		}
		parent[key] = n + eff.Delta
	case AbsoluteChange:
		n, numeric := toFloat(parent[key])
		if !numeric {
			return false
		}
		parent[key] = n + eff.Delta
		if eff.Recurring && register {
			e.recurring = append(e.recurring, d)
		}
	case AbsoluteSetRate:
		parent[key] = eff.Value
	default:
		slog.Warn("unhandled effect kind", "kind", d.Effect.Kind())
		return false
	}
	return true
}

// ApplyRaw decodes and applies a batch. Descriptors that fail to decode are logged and
// skipped. It returns how many effects took.
func (e *Engine) ApplyRaw(state *State, raws []RawDescriptor) int {
	applied := 0
	for _, raw := range raws {
		d, err := Decode(raw)
		if err != nil {
			slog.Warn("skipping policy effect", "error", err)
			continue
		}
		if e.Apply(state, d) {
			applied++
		}
	}
	return applied
}

// Enact applies every effect of a policy.
func (e *Engine) Enact(state *State, p Policy) int {
	applied := e.ApplyRaw(state, p.Effects)
	slog.Info("policy enacted", "policy", p.ID, "effects", len(p.Effects), "applied", applied)
	return applied
}

// TickRecurring reapplies every registered recurring effect.
func (e *Engine) TickRecurring(state *State) int {
	applied := 0
	for _, d := range e.recurring {
		if e.apply(state, d, false) {
			applied++
		}
	}
	return applied
}

// Recurring returns the registered recurring effects in declarative form.
func (e *Engine) Recurring() []RawDescriptor {
	out := make([]RawDescriptor, len(e.recurring))
	for i, d := range e.recurring {
		out[i] = d.raw
	}
	return out
}

// RestoreRecurring replaces the registered recurring effects. Entries that no longer
// decode are dropped.
func (e *Engine) RestoreRecurring(raws []RawDescriptor) {
	e.recurring = e.recurring[:0]
	for _, raw := range raws {
		d, err := Decode(raw)
		if err != nil {
			slog.Warn("dropping recurring effect", "error", err)
			continue
		}
		e.recurring = append(e.recurring, d)
	}
}

// resolve walks a dot-separated path, creating intermediate objects. It returns the object
// holding the final key.
func resolve(root Stats, path string) (Stats, string, bool) {
	if root == nil || path == "" {
		return nil, "", false
	}
	parts := strings.Split(path, ".")
	cur := root
	for _, p := range parts[:len(parts)-1] {
		cur = ensureMap(cur, p)
		if cur == nil {
			return nil, "", false
		}
	}
	return cur, parts[len(parts)-1], true
}

// ensureMap returns m[key] as an object, creating it when absent. A present non-object
// value yields nil.
func ensureMap(m Stats, key string) Stats {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		child := Stats{}
		m[key] = child
		return child
	}
	child, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return child
}

// stepScale moves cur along scale by steps, clamped to the ends. A value not on the scale
// starts from the middle.
func stepScale(scale []string, cur any, steps int) string {
	idx := -1
	if s, ok := cur.(string); ok {
		idx = scaleIndex(scale, s)
	}
	if idx < 0 {
		idx = len(scale) / 2
	}
	return scale[entropy.Clamp(idx+steps, 0, len(scale)-1)]
}

func scaleIndex(scale []string, v string) int {
	for i, s := range scale {
		if strings.EqualFold(s, v) {
			return i
		}
	}
	return -1
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
