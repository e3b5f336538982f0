// Package dice implements deterministic dice-notation rolling for game tools.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrBadNotation indicates a roll expression could not be parsed.
var ErrBadNotation = errors.New("invalid dice notation")

// ErrInvalidSpec indicates a die specification has invalid fields.
var ErrInvalidSpec = errors.New("dice must have positive sides and count")

// ErrTooManyDice guards against pathological requests.
var ErrTooManyDice = errors.New("too many dice in one roll")

// MaxDice bounds the number of dice rolled in a single request.
const MaxDice = 100

var notationRe = regexp.MustCompile(`^\s*(\d*)[dD](\d+)\s*(?:([+-])\s*(\d+))?\s*$`)

// Spec is a parsed dice expression such as "2d6+3".
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// Parse parses standard dice notation ("d20", "2d6+3", "4D8 - 1").
func Parse(notation string) (Spec, error) {
	m := notationRe.FindStringSubmatch(notation)
	if m == nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrBadNotation, notation)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrBadNotation, notation)
		}
		count = n
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrBadNotation, notation)
	}

	modifier := 0
	if m[4] != "" {
		modifier, err = strconv.Atoi(m[4])
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrBadNotation, notation)
		}
		if m[3] == "-" {
			modifier = -modifier
		}
	}

	if count <= 0 || sides <= 0 {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidSpec, notation)
	}
	if count > MaxDice {
		return Spec{}, fmt.Errorf("%w: %d > %d", ErrTooManyDice, count, MaxDice)
	}

	return Spec{Count: count, Sides: sides, Modifier: modifier}, nil
}

// String renders the spec back into canonical notation.
func (s Spec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%d", s.Count, s.Sides)
	if s.Modifier > 0 {
		fmt.Fprintf(&b, "+%d", s.Modifier)
	}
	if s.Modifier < 0 {
		fmt.Fprintf(&b, "%d", s.Modifier)
	}
	return b.String()
}

// Roll captures the results of rolling one expression. Results appear in the
// order the dice were rolled; Total includes the modifier.
type Roll struct {
	Notation string `json:"notation"`
	Results  []int  `json:"results"`
	Modifier int    `json:"modifier,omitempty"`
	Total    int    `json:"total"`
}

// Roller rolls dice expressions. It is deterministic with respect to its
// seed: the same seed and the same sequence of expressions always produce
// the same results. Safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller constructs a Roller seeded from the current time.
func NewRoller() *Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller constructs a Roller with an explicit seed for
// reproducible sequences.
func NewSeededRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Roll parses and rolls a dice expression.
func (r *Roller) Roll(notation string) (*Roll, error) {
	spec, err := Parse(notation)
	if err != nil {
		return nil, err
	}
	return r.RollSpec(spec), nil
}

// RollSpec rolls an already-parsed spec.
func (r *Roller) RollSpec(spec Spec) *Roll {
	r.mu.Lock()
	defer r.mu.Unlock()

	roll := &Roll{
		Notation: spec.String(),
		Results:  make([]int, spec.Count),
		Modifier: spec.Modifier,
		Total:    spec.Modifier,
	}
	for i := 0; i < spec.Count; i++ {
		v := r.rng.Intn(spec.Sides) + 1
		roll.Results[i] = v
		roll.Total += v
	}
	return roll
}
