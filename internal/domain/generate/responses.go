package generate

import (
	"fmt"
	"math"

	"github.com/verasim/verasim/internal/domain/booklet"
)

// GenerateResponses synthesizes a binary response matrix for students on
// a booklet using the 1PL IRT model: the probability of an incorrect
// response is 1/(1+exp(ability-difficulty)), so a response is correct
// with probability exp(a-d)/(1+exp(a-d)).
//
// The PRNG stream is seeded from the Adler-32 checksum of
// "{seed}-{studentCount}-{itemCount}", independent of the student
// generation stream; re-seeding one stage never perturbs the other.
// Draws are row-major (students outer, items inner) and columns follow
// the booklet's numeric item order.
func GenerateResponses(students []Student, b *booklet.Booklet, seed string) ([][]int, error) {
	if b.ItemCount() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBooklet, b.Key)
	}
	for i, s := range students {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: student %d has no id", ErrInvalidPopulation, i)
		}
	}

	items := b.SortedItems()

	r := seededRand(fmt.Sprintf("%s-%d-%d", seed, len(students), len(items)))

	responses := make([][]int, len(students))
	for i, s := range students {
		row := make([]int, len(items))
		for j, item := range items {
			pFail := 1.0 / (1.0 + math.Exp(s.Ability-item.Logit))
			if r.Float64() > pFail {
				row[j] = 1
			}
		}
		responses[i] = row
	}

	return responses, nil
}
