// Package games generates single rounds for each stage's mini-game.
//
// Every generator is a pure function of a random source and a difficulty: it samples a
// problem from a bounded pool and records the expected answer. Nothing carries over
// between rounds.
package games

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
)

var (
	ErrNoGenerator       = errors.New("stage has no round generator")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts easy, medium or hard; an empty string means easy
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case "":
		return Easy, nil
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Round is one generated problem together with its answer
type Round struct {
	Game       string   `json:"game"`
	Difficulty string   `json:"difficulty"`
	Prompt     string   `json:"prompt"`
	Items      []string `json:"items,omitempty"`
	Options    []string `json:"options,omitempty"`
	Answer     string   `json:"answer"`
}

// Check is the equality test against the generated answer
func (r Round) Check(answer string) bool {
	return answer == r.Answer
}

type generator func(r *rand.Rand, d Difficulty) Round

var generators = map[string]generator{
	"counting":       counting,
	"addition":       arithmetic("addition"),
	"subtraction":    arithmetic("subtraction"),
	"multiplication": arithmetic("multiplication"),
	"pattern":        pattern,
	"memory":         memory,
	"fraction":       fraction,
	"division":       division,
}

// Games lists the stages that have a generator, sorted
func Games() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasGenerator reports whether rounds can be generated for game
func HasGenerator(game string) bool {
	_, ok := generators[game]
	return ok
}

// NewRound generates a round for game. A nil r uses a freshly seeded source.
func NewRound(game string, d Difficulty, r *rand.Rand) (Round, error) {
	gen, ok := generators[game]
	if !ok {
		return Round{}, fmt.Errorf("%w: %q", ErrNoGenerator, game)
	}
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	round := gen(r, d)
	round.Game = game
	round.Difficulty = string(d)
	return round, nil
}

// between returns a uniform int in [lo, hi]
func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func shuffled(r *rand.Rand, items []string) []string {
	out := append([]string(nil), items...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
