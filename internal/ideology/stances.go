package ideology

// Option is one answer to a policy question.
type Option struct {
	ID      string  `yaml:"id" json:"id"`
	Label   string  `yaml:"label" json:"label"`
	Effects Profile `yaml:"effects" json:"effects"`
}

// Question is a policy question with its possible answers.
type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`
}

// Option returns the option with the given id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Stances maps policy question id to the chosen option id.
type Stances map[string]string

// Clone returns an independent copy.
func (s Stances) Clone() Stances {
	if s == nil {
		return nil
	}
	out := make(Stances, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Normalize computes the profile implied by a set of stances. Each axis is the mean of
// the non-zero contributions of the answered questions; an axis nobody moved stays 0.
func Normalize(stances Stances, questions []Question) Profile {
	sums := make(map[Axis]float64, len(AllAxes))
	counts := make(map[Axis]int, len(AllAxes))

	for _, q := range questions {
		chosen, ok := stances[q.ID]
		if !ok {
			continue
		}
		opt, ok := q.Option(chosen)
		if !ok {
			continue
		}
		for axis, effect := range opt.Effects {
			if effect == 0 {
				continue
			}
			sums[axis] += effect
			counts[axis]++
		}
	}

	out := make(Profile, len(AllAxes))
	for _, axis := range AllAxes {
		if n := counts[axis]; n > 0 {
			out[axis] = sums[axis] / float64(n)
		} else {
			out[axis] = 0
		}
	}
	return out
}
