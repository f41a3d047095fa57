package algo

import (
	"math/rand"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// Random is the baseline strategy: it takes every task it can afford and
// otherwise wanders to a uniformly chosen passable neighbour.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random walk strategy drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (s *Random) Name() string { return "random" }

func (s *Random) OnInfoUpdated(Info) {}

func (s *Random) OnTaskReached(_ Info, r *core.Robot, t *core.Task) bool {
	return canTake(r, t)
}

func (s *Random) IdleAction(info Info, r *core.Robot) core.Action {
	moves := make([]core.Action, 0, 4)
	for _, a := range core.Actions() {
		if a != core.Hold && info.Knowledge.Passable(r.Coord.Step(a), r.Type) {
			moves = append(moves, a)
		}
	}
	if len(moves) == 0 {
		return core.Hold
	}
	return moves[s.rng.Intn(len(moves))]
}
