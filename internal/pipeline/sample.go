package pipeline

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/ChizhovVadim/dataforge/internal/domain"
)

const DefaultSamplesPerGame = 0.10

// SampleGames keeps round(frac * n) positions of every game, rounding half
// to even. Kept records stay in input order.
func SampleGames(records []domain.Record, frac float64, seed uint64) ([]domain.Record, error) {
	if math.IsNaN(frac) || frac < 0 || frac > 1 {
		return nil, fmt.Errorf("%w: samples per game %v not in [0, 1]", domain.ErrValidation, frac)
	}

	var order []string
	var byGame = make(map[string][]int)
	for i := range records {
		var id = records[i].GameID
		if _, found := byGame[id]; !found {
			order = append(order, id)
		}
		byGame[id] = append(byGame[id], i)
	}

	var rnd = newRand(seed)
	var keep []int
	for _, id := range order {
		var indexes = byGame[id]
		var n = int(math.RoundToEven(frac * float64(len(indexes))))
		for _, j := range rnd.Perm(len(indexes))[:n] {
			keep = append(keep, indexes[j])
		}
	}
	sort.Ints(keep)

	var result = make([]domain.Record, len(keep))
	for i, index := range keep {
		result[i] = records[index]
	}
	return result, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
