package generate_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/verasim/verasim/internal/domain/booklet"
	"github.com/verasim/verasim/internal/domain/generate"
)

func testBooklet() *booklet.Booklet {
	return &booklet.Booklet{
		Key: booklet.Key{Level: 3, Year: 2024, Subject: "de", BookletID: "TH01"},
		Items: []booklet.Item{
			{ID: "D2", Logit: 1.5, Domain: "le", OrderInBooklet: 2},
			{ID: "D1", Logit: -0.5, Domain: "le", OrderInBooklet: 1},
		},
	}
}

func TestGenerateResponses_Determinism(t *testing.T) {
	convey.Convey("Given three students and a two item booklet", t, func() {
		profile := generate.Profile{Name: "standard", AbilityMean: 0, AbilityStd: 1}
		students, err := generate.GenerateStudents(3, profile, "A", nil)
		convey.So(err, convey.ShouldBeNil)
		b := testBooklet()

		convey.Convey("Then regenerating with seed A should reproduce the matrix", func() {
			first, err := generate.GenerateResponses(students, b, "A")
			convey.So(err, convey.ShouldBeNil)
			second, err := generate.GenerateResponses(students, b, "A")
			convey.So(err, convey.ShouldBeNil)
			convey.So(second, convey.ShouldResemble, first)
		})

		convey.Convey("Then the matrix should have one row per student and one column per item", func() {
			responses, err := generate.GenerateResponses(students, b, "A")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(responses), convey.ShouldEqual, 3)
			for _, row := range responses {
				convey.So(len(row), convey.ShouldEqual, 2)
				for _, v := range row {
					convey.So(v, convey.ShouldBeIn, 0, 1)
				}
			}
		})
	})
}

func TestGenerateResponses_AbilityEffect(t *testing.T) {
	convey.Convey("Given very able and very unable students", t, func() {
		b := testBooklet()
		able := []generate.Student{{ID: "a", Ability: 30}}
		unable := []generate.Student{{ID: "u", Ability: -30}}

		convey.Convey("Then an extreme ability should force the response", func() {
			correct, err := generate.GenerateResponses(able, b, "s")
			convey.So(err, convey.ShouldBeNil)
			convey.So(correct[0], convey.ShouldResemble, []int{1, 1})

			wrong, err := generate.GenerateResponses(unable, b, "s")
			convey.So(err, convey.ShouldBeNil)
			convey.So(wrong[0], convey.ShouldResemble, []int{0, 0})
		})
	})
}

func TestGenerateResponses_Validation(t *testing.T) {
	convey.Convey("Given invalid inputs", t, func() {
		convey.Convey("Then an empty booklet should be rejected", func() {
			empty := &booklet.Booklet{Key: booklet.Key{Level: 3, Year: 2024, Subject: "de", BookletID: "X"}}
			_, err := generate.GenerateResponses([]generate.Student{{ID: "a"}}, empty, "s")
			convey.So(err, convey.ShouldWrap, generate.ErrEmptyBooklet)
		})

		convey.Convey("Then a student without an id should be rejected", func() {
			_, err := generate.GenerateResponses([]generate.Student{{}}, testBooklet(), "s")
			convey.So(err, convey.ShouldWrap, generate.ErrInvalidPopulation)
		})
	})
}

func TestGenerateGroup(t *testing.T) {
	convey.Convey("Given a group configuration", t, func() {
		b := testBooklet()
		profile := generate.Profile{Name: "standard", AbilityMean: 0, AbilityStd: 1}

		convey.Convey("Then the group id should act as the default seed", func() {
			withDefault, err := generate.GenerateGroup("lg-001", b, profile, 5, nil, "")
			convey.So(err, convey.ShouldBeNil)
			explicit, err := generate.GenerateGroup("lg-001", b, profile, 5, nil, "lg-001")
			convey.So(err, convey.ShouldBeNil)
			convey.So(explicit.Students, convey.ShouldResemble, withDefault.Students)
			convey.So(explicit.Responses, convey.ShouldResemble, withDefault.Responses)
		})

		convey.Convey("Then an explicit seed should decouple data from the group id", func() {
			a, err := generate.GenerateGroup("lg-001", b, profile, 5, nil, "shared")
			convey.So(err, convey.ShouldBeNil)
			c, err := generate.GenerateGroup("lg-002", b, profile, 5, nil, "shared")
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Students, convey.ShouldResemble, a.Students)
			convey.So(c.GroupID, convey.ShouldNotEqual, a.GroupID)
		})

		convey.Convey("Then Column should slice the matrix by item", func() {
			g, err := generate.GenerateGroup("lg-001", b, profile, 4, nil, "")
			convey.So(err, convey.ShouldBeNil)
			col := g.Column(0)
			convey.So(len(col), convey.ShouldEqual, 4)
			for i, row := range g.Responses {
				convey.So(col[i], convey.ShouldEqual, row[0])
			}
			convey.So(len(g.StudentIDs()), convey.ShouldEqual, 4)
		})
	})
}
