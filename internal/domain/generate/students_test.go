package generate_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"
	"github.com/verasim/verasim/internal/domain/generate"
)

func TestGenerateStudents_Determinism(t *testing.T) {
	convey.Convey("Given a profile and a seed", t, func() {
		profile := generate.Profile{Name: "standard", AbilityMean: 0.2, AbilityStd: 1.1}
		covariates := []generate.Covariate{
			{Type: "gender", Categories: []string{"m", "w"}, Probabilities: []float64{0.5, 0.5}},
		}

		convey.Convey("Then the same seed should reproduce the same cohort", func() {
			a, err := generate.GenerateStudents(25, profile, "lg-001", covariates)
			convey.So(err, convey.ShouldBeNil)
			b, err := generate.GenerateStudents(25, profile, "lg-001", covariates)
			convey.So(err, convey.ShouldBeNil)
			convey.So(b, convey.ShouldResemble, a)
		})

		convey.Convey("Then a different seed should produce a different cohort", func() {
			a, _ := generate.GenerateStudents(25, profile, "lg-001", covariates)
			b, _ := generate.GenerateStudents(25, profile, "lg-002", covariates)
			convey.So(b, convey.ShouldNotResemble, a)
		})

		convey.Convey("Then every student should be fully populated", func() {
			students, err := generate.GenerateStudents(10, profile, "lg-001", covariates)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(students), convey.ShouldEqual, 10)

			seen := make(map[string]bool)
			for _, s := range students {
				_, err := uuid.Parse(s.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(seen[s.ID], convey.ShouldBeFalse)
				seen[s.ID] = true
				convey.So(s.Name, convey.ShouldNotBeEmpty)
				convey.So(len(s.Covariates), convey.ShouldEqual, 1)
				convey.So(s.Covariates[0].Type, convey.ShouldEqual, "gender")
				convey.So(s.Covariates[0].Value, convey.ShouldBeIn, "m", "w")
			}
		})
	})
}

func TestGenerateStudents_Validation(t *testing.T) {
	convey.Convey("Given invalid generation parameters", t, func() {
		profile := generate.Profile{Name: "standard", AbilityMean: 0, AbilityStd: 1}

		convey.Convey("Then a non-positive count should be rejected", func() {
			_, err := generate.GenerateStudents(0, profile, "s", nil)
			convey.So(err, convey.ShouldWrap, generate.ErrInvalidCount)
		})

		convey.Convey("Then covariate probabilities must sum to one", func() {
			bad := []generate.Covariate{
				{Type: "gender", Categories: []string{"m", "w"}, Probabilities: []float64{0.5, 0.4}},
			}
			_, err := generate.GenerateStudents(5, profile, "s", bad)
			convey.So(err, convey.ShouldWrap, generate.ErrInvalidCovariate)
		})

		convey.Convey("Then category and probability lengths must match", func() {
			bad := []generate.Covariate{
				{Type: "gender", Categories: []string{"m", "w"}, Probabilities: []float64{1.0}},
			}
			_, err := generate.GenerateStudents(5, profile, "s", bad)
			convey.So(err, convey.ShouldWrap, generate.ErrInvalidCovariate)
		})
	})
}

func TestGenerateStudents_CovariateDistribution(t *testing.T) {
	convey.Convey("Given a degenerate covariate distribution", t, func() {
		profile := generate.Profile{Name: "standard", AbilityMean: 0, AbilityStd: 1}
		covariates := []generate.Covariate{
			{Type: "sprache", Categories: []string{"deutsch", "andere"}, Probabilities: []float64{1.0, 0.0}},
		}

		convey.Convey("Then every student should draw the certain category", func() {
			students, err := generate.GenerateStudents(50, profile, "s", covariates)
			convey.So(err, convey.ShouldBeNil)
			for _, s := range students {
				convey.So(s.Covariates[0].Value, convey.ShouldEqual, "deutsch")
			}
		})
	})
}
