// Package score defines the two level score used to compare candidate routes.
// The hard level counts feasibility violations, the soft level counts cost.
// The levels are never combined into one number.
package score

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Score holds the negated hard and soft penalties of a solution. Zero is the
// best possible value on each level.
type Score struct {
	Hard int64 `json:"hard"`
	Soft int64 `json:"soft"`
}

// Zero is the score of a solution without any penalty.
var Zero = Score{}

// Penalty builds a score from non negative penalty amounts.
func Penalty(hard, soft int64) Score {
	return Score{Hard: -hard, Soft: -soft}
}

// Add returns the level-wise sum of s and o.
func (s Score) Add(o Score) Score {
	return Score{Hard: s.Hard + o.Hard, Soft: s.Soft + o.Soft}
}

// Compare returns -1, 0 or +1 when s is worse than, equal to or better than o.
// The hard level decides first; the soft level only breaks ties.
func (s Score) Compare(o Score) int {
	if c := cmp.Compare(s.Hard, o.Hard); c != 0 {
		return c
	}
	return cmp.Compare(s.Soft, o.Soft)
}

// Better reports whether s strictly beats o.
func (s Score) Better(o Score) bool { return s.Compare(o) > 0 }

// IsFeasible reports whether no hard constraint is broken.
func (s Score) IsFeasible() bool { return s.Hard >= 0 }

// HardPenalty returns the hard level as a positive amount.
func (s Score) HardPenalty() int64 { return -s.Hard }

// SoftPenalty returns the soft level as a positive amount.
func (s Score) SoftPenalty() int64 { return -s.Soft }

func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// Parse reads the representation produced by String.
func Parse(v string) (Score, error) {
	hardPart, softPart, ok := strings.Cut(v, "/")
	if !ok || !strings.HasSuffix(hardPart, "hard") || !strings.HasSuffix(softPart, "soft") {
		return Score{}, fmt.Errorf("invalid score %q", v)
	}
	hard, err := strconv.ParseInt(strings.TrimSuffix(hardPart, "hard"), 10, 64)
	if err != nil {
		return Score{}, fmt.Errorf("invalid hard level in %q: %w", v, err)
	}
	soft, err := strconv.ParseInt(strings.TrimSuffix(softPart, "soft"), 10, 64)
	if err != nil {
		return Score{}, fmt.Errorf("invalid soft level in %q: %w", v, err)
	}
	return Score{Hard: hard, Soft: soft}, nil
}
