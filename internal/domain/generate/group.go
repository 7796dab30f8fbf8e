package generate

import (
	"github.com/verasim/verasim/internal/domain/booklet"
)

// GroupData is the complete generated artifact for one group instance.
// It is created fresh per request, owned by that request, and never
// mutated after creation.
type GroupData struct {
	GroupID  string
	Booklet  *booklet.Booklet
	Students []Student
	// Responses holds one row per student in Students order, one column
	// per item in the booklet's numeric item order.
	Responses [][]int
	Profile   Profile
}

// StudentIDs returns the generated student identities in row order.
func (g *GroupData) StudentIDs() []string {
	ids := make([]string, len(g.Students))
	for i, s := range g.Students {
		ids[i] = s.ID
	}
	return ids
}

// Column returns the response column for the item at the given sorted
// index, one value per student.
func (g *GroupData) Column(itemIndex int) []int {
	col := make([]int, len(g.Responses))
	for i, row := range g.Responses {
		col[i] = row[itemIndex]
	}
	return col
}

// GenerateGroup is the main entry point for generating one group's data.
// When seed is empty the group id is used as the seed string.
func GenerateGroup(groupID string, b *booklet.Booklet, profile Profile, studentCount int, covariates []Covariate, seed string) (*GroupData, error) {
	if seed == "" {
		seed = groupID
	}

	students, err := GenerateStudents(studentCount, profile, seed, covariates)
	if err != nil {
		return nil, err
	}

	responses, err := GenerateResponses(students, b, seed)
	if err != nil {
		return nil, err
	}

	return &GroupData{
		GroupID:   groupID,
		Booklet:   b,
		Students:  students,
		Responses: responses,
		Profile:   profile,
	}, nil
}
