package games

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

var spaceEmojis = []string{"🪐", "⭐", "🌍", "🌙", "☀️", "🌟", "💫", "🚀", "🛸", "🌌"}

func counting(r *rand.Rand, d Difficulty) Round {
	limit := 5
	switch d {
	case Medium:
		limit = 10
	case Hard:
		limit = 20
	}

	target := between(r, 1, limit)
	emoji := spaceEmojis[r.IntN(len(spaceEmojis))]

	opts := []int{target}
	for len(opts) < 3 {
		n := between(r, 1, limit)
		if !containsInt(opts, n) {
			opts = append(opts, n)
		}
	}
	sort.Ints(opts)

	items := make([]string, target)
	for i := range items {
		items[i] = emoji
	}
	return Round{
		Prompt:  fmt.Sprintf("How many %s can you count?", emoji),
		Items:   items,
		Options: intStrings(opts),
		Answer:  itoa(target),
	}
}

func arithmetic(op string) generator {
	return func(r *rand.Rand, d Difficulty) Round {
		limit := 10
		switch d {
		case Medium:
			limit = 20
		case Hard:
			limit = 50
		}

		var a, b, answer int
		var symbol string
		switch op {
		case "subtraction":
			a = between(r, 1, limit)
			b = r.IntN(a) // keeps the result non-negative
			answer, symbol = a-b, "-"
		case "multiplication":
			mMax := 5
			switch d {
			case Medium:
				mMax = 9
			case Hard:
				mMax = 12
			}
			a, b = between(r, 1, mMax), between(r, 1, mMax)
			answer, symbol = a*b, "×"
		default:
			a, b = between(r, 1, limit), between(r, 1, limit)
			answer, symbol = a+b, "+"
		}

		opts := []int{answer}
		for len(opts) < 4 {
			offset := between(r, 1, 5)
			n := answer + offset
			if r.IntN(2) == 0 {
				n = answer - offset
			}
			if n >= 0 && !containsInt(opts, n) {
				opts = append(opts, n)
			}
		}
		return Round{
			Prompt:  fmt.Sprintf("%d %s %d = ?", a, symbol, b),
			Options: shuffled(r, intStrings(opts)),
			Answer:  itoa(answer),
		}
	}
}

var patternTemplates = [][]string{
	{"🍎", "🍌", "🍎", "🍌", "🍎"},
	{"🐶", "🐱", "🐱", "🐶", "🐱"},
	{"⭐", "⭐", "🌙", "⭐", "⭐"},
	{"🔴", "🔵", "🟢", "🔴", "🔵"},
	{"🚗", "🚕", "🚗", "🚕", "🚗"},
}

var patternDistractors = []string{"🍇", "🦊", "☀️", "🟡", "🚛", "🌍", "🚀", "🌈"}

func pattern(r *rand.Rand, _ Difficulty) Round {
	template := patternTemplates[r.IntN(len(patternTemplates))]
	answer := nextInPattern(template)

	opts := []string{answer}
	for _, candidate := range shuffled(r, patternDistractors) {
		if len(opts) == 3 {
			break
		}
		if candidate != answer {
			opts = append(opts, candidate)
		}
	}

	items := append(append([]string(nil), template...), "?")
	return Round{
		Prompt:  "What comes next?",
		Items:   items,
		Options: shuffled(r, opts),
		Answer:  answer,
	}
}

// nextInPattern finds the shortest repeating period of seq and returns the item that continues it
func nextInPattern(seq []string) string {
	n := len(seq)
	for period := 1; period < n; period++ {
		repeats := true
		for i := period; i < n; i++ {
			if seq[i] != seq[i-period] {
				repeats = false
				break
			}
		}
		if repeats {
			return seq[n-period]
		}
	}
	return seq[0]
}

var memoryCards = []string{"🪐", "🚀", "⭐", "🌍", "👽", "🌙"}

func memory(r *rand.Rand, d Difficulty) Round {
	pairs := len(memoryCards)
	switch d {
	case Easy:
		pairs = 3
	case Medium:
		pairs = 4
	}

	deck := make([]string, 0, pairs*2)
	for _, card := range memoryCards[:pairs] {
		deck = append(deck, card, card)
	}
	return Round{
		Prompt: fmt.Sprintf("Find all %d pairs!", pairs),
		Items:  shuffled(r, deck),
		Answer: itoa(pairs),
	}
}

// MemoryScore maps memory points (20 per pair) onto the shared round scale,
// so clearing three pairs on easy still reaches the win threshold.
func MemoryScore(points int) int {
	if points <= 0 {
		return 0
	}
	return (points + 9) / 10
}

func fraction(r *rand.Rand, d Difficulty) Round {
	denoms := []int{2, 4}
	switch d {
	case Medium:
		denoms = []int{3, 5, 8}
	case Hard:
		denoms = []int{6, 10, 12}
	}

	pick := func() string {
		den := denoms[r.IntN(len(denoms))]
		num := between(r, 1, den-1)
		return fmt.Sprintf("%d/%d", num, den)
	}

	answer := pick()
	opts := []string{answer}
	for len(opts) < 3 {
		if f := pick(); !containsString(opts, f) {
			opts = append(opts, f)
		}
	}
	return Round{
		Prompt:  fmt.Sprintf("Find the pizza showing %s!", answer),
		Options: shuffled(r, opts),
		Answer:  answer,
	}
}

var monsters = []string{"👹", "👾", "🤖", "👽"}

func division(r *rand.Rand, d Difficulty) Round {
	count, maxTotal := 2, 10
	switch d {
	case Medium:
		count, maxTotal = between(r, 2, 3), 20
	case Hard:
		count, maxTotal = between(r, 3, 4), 30
	}

	perMonster := between(r, 1, maxTotal/count)
	total := perMonster * count

	opts := []int{perMonster}
	for len(opts) < 3 {
		n := between(r, 1, perMonster+3)
		if !containsInt(opts, n) {
			opts = append(opts, n)
		}
	}
	return Round{
		Prompt:  fmt.Sprintf("Share %d cookies equally between %d monsters!", total, count),
		Items:   shuffled(r, monsters)[:count],
		Options: shuffled(r, intStrings(opts)),
		Answer:  itoa(perMonster),
	}
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func intStrings(nums []int) []string {
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = itoa(n)
	}
	return out
}

// String renders a round for logs and the CLI
func (r Round) String() string {
	return fmt.Sprintf("%s/%s: %s [%s]", r.Game, r.Difficulty, r.Prompt, strings.Join(r.Options, ", "))
}
