package policy

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownEffect is returned by Decode for effect types outside the vocabulary.
var ErrUnknownEffect = errors.New("unknown effect type")

// ErrUnknownLevel is returned by Decode for levels other than city, state, and national.
var ErrUnknownLevel = errors.New("unknown jurisdiction level")

// Effect is one of the effect kinds below.
type Effect interface {
	// Kind returns the declarative type string.
	Kind() string
	effect()
}

// LevelChange steps a rating along RatingScale.
type LevelChange struct {
	Steps int
}

// ConditionalLevelChange steps a rating by Steps when the descriptor param reaches
// Threshold, by ElseSteps otherwise.
type ConditionalLevelChange struct {
	Param     string
	Threshold float64
	Steps     int
	ElseSteps int
}

// MoodShift steps a mood along MoodScale.
type MoodShift struct {
	Steps int
}

// ConditionalMoodShift is ConditionalLevelChange on MoodScale.
type ConditionalMoodShift struct {
	Param     string
	Threshold float64
	Steps     int
	ElseSteps int
}

// PercentagePointChange adds Delta to a number; a missing value counts as 0.
type PercentagePointChange struct {
	Delta float64
}

// AbsoluteChange adds Delta only to an existing number. Recurring changes are reapplied
// by Engine.TickRecurring.
type AbsoluteChange struct {
	Delta     float64
	Recurring bool
}

// AbsoluteSetRate overwrites the value.
type AbsoluteSetRate struct {
	Value float64
}

func (LevelChange) Kind() string            { return "level_change" }
func (ConditionalLevelChange) Kind() string { return "conditional_level_change_by_param" }
func (MoodShift) Kind() string              { return "mood_shift" }
func (ConditionalMoodShift) Kind() string   { return "conditional_mood_shift_by_param" }
func (PercentagePointChange) Kind() string  { return "percentage_point_change" }
func (AbsoluteSetRate) Kind() string        { return "absolute_set_rate" }

func (a AbsoluteChange) Kind() string {
	if a.Recurring {
		return "absolute_change_recurring"
	}
	return "absolute_change"
}

func (LevelChange) effect()            {}
func (ConditionalLevelChange) effect() {}
func (MoodShift) effect()              {}
func (ConditionalMoodShift) effect()   {}
func (PercentagePointChange) effect()  {}
func (AbsoluteChange) effect()         {}
func (AbsoluteSetRate) effect()        {}

// conditionalSteps picks the branch selected by params.
func conditionalSteps(params map[string]float64, param string, threshold float64, steps, elseSteps int) int {
	if v, ok := params[param]; ok && v >= threshold {
		return steps
	}
	return elseSteps
}

// Descriptor is a decoded effect bound to its target.
type Descriptor struct {
	Level        Level
	Path         string
	IsBudgetItem bool
	IsTaxRate    bool
	// Probability in [0, 1] that the effect fires; nil always fires.
	Chance *float64
	Params map[string]float64
	Effect Effect

	raw RawDescriptor
}

// Raw returns the declarative form the descriptor was decoded from.
func (d Descriptor) Raw() RawDescriptor {
	return d.raw
}

// RawDescriptor is the declarative shape of an effect as it appears in catalogs.
type RawDescriptor struct {
	Level        Level              `yaml:"level" json:"level"`
	Path         string             `yaml:"path" json:"path"`
	Type         string             `yaml:"type" json:"type"`
	Value        float64            `yaml:"value,omitempty" json:"value,omitempty"`
	Steps        int                `yaml:"steps,omitempty" json:"steps,omitempty"`
	ElseSteps    int                `yaml:"else_steps,omitempty" json:"else_steps,omitempty"`
	Param        string             `yaml:"param,omitempty" json:"param,omitempty"`
	Threshold    float64            `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	IsBudgetItem bool               `yaml:"is_budget_item,omitempty" json:"is_budget_item,omitempty"`
	IsTaxRate    bool               `yaml:"is_tax_rate,omitempty" json:"is_tax_rate,omitempty"`
	Chance       *float64           `yaml:"chance,omitempty" json:"chance,omitempty"`
	Params       map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
}

// Decode resolves the type string into an effect variant.
func Decode(raw RawDescriptor) (Descriptor, error) {
	switch raw.Level {
	case LevelCity, LevelState, LevelNational:
	default:
		return Descriptor{}, fmt.Errorf("decode %s effect on %q: %w", raw.Type, raw.Level, ErrUnknownLevel)
	}

	// Rating effects accept either steps or a whole-number value.
	steps := raw.Steps
	if steps == 0 {
		steps = int(math.Round(raw.Value))
	}

	var e Effect
	switch raw.Type {
	case "level_change":
		e = LevelChange{Steps: steps}
	case "conditional_level_change_by_param":
		e = ConditionalLevelChange{Param: raw.Param, Threshold: raw.Threshold, Steps: steps, ElseSteps: raw.ElseSteps}
	case "mood_shift":
		e = MoodShift{Steps: steps}
	case "conditional_mood_shift_by_param":
		e = ConditionalMoodShift{Param: raw.Param, Threshold: raw.Threshold, Steps: steps, ElseSteps: raw.ElseSteps}
	case "percentage_point_change":
		e = PercentagePointChange{Delta: raw.Value}
	case "absolute_change":
		e = AbsoluteChange{Delta: raw.Value}
	case "absolute_change_recurring":
		e = AbsoluteChange{Delta: raw.Value, Recurring: true}
	case "absolute_set_rate":
		e = AbsoluteSetRate{Value: raw.Value}
	default:
		return Descriptor{}, fmt.Errorf("decode %q: %w", raw.Type, ErrUnknownEffect)
	}

	return Descriptor{
		Level:        raw.Level,
		Path:         raw.Path,
		IsBudgetItem: raw.IsBudgetItem,
		IsTaxRate:    raw.IsTaxRate,
		Chance:       raw.Chance,
		Params:       raw.Params,
		Effect:       e,
		raw:          raw,
	}, nil
}

// Policy is an enactable bundle of effects.
type Policy struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Effects     []RawDescriptor `yaml:"effects" json:"effects"`
}
