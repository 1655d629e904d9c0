package tests

import (
	"math/rand"
	"time"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	Intn    func(n int) int
	Pick    func(values []string) string
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
		Pick: func(values []string) string {
			if len(values) == 0 {
				return ""
			}

			return values[random.Intn(len(values))]
		},
	}
}
