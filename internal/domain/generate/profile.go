package generate

import (
	"fmt"
	"math"
)

// Probabilities within this tolerance of 1.0 are accepted; covariate
// configs typically carry hand-written decimals.
const probabilitySumTolerance = 1e-9

// Profile describes a population's ability distribution.
type Profile struct {
	Name        string  // human-readable name
	AbilityMean float64 // mean ability on the logit scale
	AbilityStd  float64 // standard deviation of the ability distribution
}

// Covariate is a categorical student attribute drawn from a discrete
// distribution. Categories and Probabilities are parallel slices.
type Covariate struct {
	Type          string
	Categories    []string
	Probabilities []float64
}

// Validate checks the distribution's internal consistency.
func (c Covariate) Validate() error {
	if len(c.Categories) != len(c.Probabilities) {
		return fmt.Errorf("%w %q: categories and probabilities must have same length", ErrInvalidCovariate, c.Type)
	}
	sum := 0.0
	for _, p := range c.Probabilities {
		if p < 0 {
			return fmt.Errorf("%w %q: probabilities must be non-negative", ErrInvalidCovariate, c.Type)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > probabilitySumTolerance {
		return fmt.Errorf("%w %q: probabilities must sum to 1.0, got %v", ErrInvalidCovariate, c.Type, sum)
	}
	return nil
}

// CovariateValue is one student's value for one covariate.
type CovariateValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
