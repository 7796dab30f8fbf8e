package generate

import (
	"fmt"
	"hash/adler32"
	"math/rand"

	"github.com/google/uuid"
)

// Name fragments for generated student display names.
var adjectives = []string{
	"schnell", "langsam", "gross", "klein", "hell", "dunkel", "leise",
	"laut", "warm", "kalt", "neu", "alt", "jung", "weit", "nah", "hoch",
	"tief", "breit", "schmal", "rund",
}

var nouns = []string{
	"apfel", "birne", "kirsche", "banane", "orange", "traube", "pflaume",
	"himbeere", "erdbeere", "zitrone", "baum", "blume", "wolke", "stern",
	"mond", "sonne", "berg", "fluss", "wald", "wiese",
}

// Student is one synthesized member of a population.
type Student struct {
	ID         string
	Name       string
	Ability    float64
	Covariates []CovariateValue
}

// seededRand builds a deterministic stream from a seed string via its
// Adler-32 checksum. All draw sequences in this package start here.
func seededRand(seed string) *rand.Rand {
	return rand.New(rand.NewSource(int64(adler32.Checksum([]byte(seed))))) //nolint:gosec // deterministic stream is the contract
}

// GenerateStudents synthesizes count students from a single PRNG stream
// seeded by the Adler-32 checksum of seed.
//
// Draws happen in a fixed order: identities first (16 bytes each), then
// all name fragments (adjectives, nouns, numbers), then abilities, then
// one categorical series per covariate in configured order. Reordering
// or adding covariates therefore shifts every later draw; this is a
// documented determinism property, not a defect.
func GenerateStudents(count int, profile Profile, seed string, covariates []Covariate) ([]Student, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	for _, cov := range covariates {
		if err := cov.Validate(); err != nil {
			return nil, err
		}
	}

	r := seededRand(seed)

	students := make([]Student, count)

	// Identities: 16 random bytes per student, formatted as UUIDs.
	buf := make([]byte, 16)
	for i := range students {
		r.Read(buf) //nolint:errcheck // rand.Read never fails
		id, err := uuid.FromBytes(buf)
		if err != nil {
			return nil, fmt.Errorf("building student id: %w", err)
		}
		students[i].ID = id.String()
	}

	// Names: adjective.noun.number, fragments drawn series by series.
	adjs := make([]string, count)
	for i := range adjs {
		adjs[i] = adjectives[r.Intn(len(adjectives))]
	}
	ns := make([]string, count)
	for i := range ns {
		ns[i] = nouns[r.Intn(len(nouns))]
	}
	for i := range students {
		students[i].Name = fmt.Sprintf("%s.%s.%d", adjs[i], ns[i], 10+r.Intn(90))
	}

	// Abilities from Normal(mean, std).
	for i := range students {
		students[i].Ability = r.NormFloat64()*profile.AbilityStd + profile.AbilityMean
	}

	// Covariates, one categorical series per distribution.
	for _, cov := range covariates {
		for i := range students {
			students[i].Covariates = append(students[i].Covariates, CovariateValue{
				Type:  cov.Type,
				Value: drawCategory(r, cov),
			})
		}
	}

	return students, nil
}

// drawCategory picks a category by scanning cumulative probabilities
// against one uniform draw.
func drawCategory(r *rand.Rand, cov Covariate) string {
	u := r.Float64()
	cum := 0.0
	for i, p := range cov.Probabilities {
		cum += p
		if u < cum {
			return cov.Categories[i]
		}
	}
	// Floating point slack can leave u just above the final cumulative sum.
	return cov.Categories[len(cov.Categories)-1]
}
