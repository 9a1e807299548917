// Package policy applies declarative effect descriptors to jurisdiction statistics.
package policy

import (
	"strings"
	"unicode"
)

// Level selects one jurisdiction block.
type Level string

const (
	LevelCity     Level = "city"
	LevelState    Level = "state"
	LevelNational Level = "national"
)

// Stats is a nested statistics object: string keys, values are numbers, strings, or
// further Stats.
type Stats = map[string]any

// State is the statistics of every jurisdiction level.
type State struct {
	City     Stats `json:"city" yaml:"city"`
	State    Stats `json:"state" yaml:"state"`
	National Stats `json:"national" yaml:"national"`
}

// NewState returns a state with empty blocks.
func NewState() *State {
	return &State{City: Stats{}, State: Stats{}, National: Stats{}}
}

// Block returns the block for a level, creating it when missing. Unknown levels return
// nil.
func (s *State) Block(l Level) Stats {
	var slot *Stats
	switch l {
	case LevelCity:
		slot = &s.City
	case LevelState:
		slot = &s.State
	case LevelNational:
		slot = &s.National
	default:
		return nil
	}
	if *slot == nil {
		*slot = Stats{}
	}
	return *slot
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	return &State{
		City:     cloneStats(s.City),
		State:    cloneStats(s.State),
		National: cloneStats(s.National),
	}
}

func cloneStats(m Stats) Stats {
	if m == nil {
		return nil
	}
	out := make(Stats, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneStats(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// Department is catalog data for one government department.
type Department struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Level  Level   `yaml:"level" json:"level"`
	Budget float64 `yaml:"budget" json:"budget"`
	Rating string  `yaml:"rating" json:"rating"`
}

// Title returns the department's display name, "Department of X" when none is set.
func (d Department) Title() string {
	if d.Name != "" {
		return d.Name
	}
	words := strings.FieldsFunc(d.ID, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return "Department of " + strings.Join(words, " ")
}

// Seed builds a starting state from base statistics and departments. Every department gets
// a budget allocation and a rating entry with the middle of the rating scale by default.
func Seed(base map[Level]Stats, departments []Department) *State {
	s := NewState()
	for level, stats := range base {
		block := s.Block(level)
		if block == nil {
			continue
		}
		for k, v := range cloneStats(stats) {
			block[k] = v
		}
	}

	for _, d := range departments {
		block := s.Block(d.Level)
		if block == nil {
			block = s.Block(LevelNational)
		}
		if alloc := ensureMap(ensureMap(block, budgetKey), expenseKey); alloc != nil {
			alloc[d.ID] = d.Budget
		}

		rating := d.Rating
		if scaleIndex(RatingScale, rating) < 0 {
			rating = RatingScale[len(RatingScale)/2]
		}
		if depts := ensureMap(block, "departments"); depts != nil {
			depts[d.ID] = Stats{
				"name":   d.Title(),
				"rating": rating,
			}
		}
	}
	return s
}
