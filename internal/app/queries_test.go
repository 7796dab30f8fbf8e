package app_test

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/verasim/verasim/internal/app"
)

func TestParseTypes(t *testing.T) {
	convey.Convey("Given type query parameter values", t, func() {
		convey.Convey("Then an empty parameter selects group records only", func() {
			convey.So(app.ParseTypes(""), convey.ShouldResemble, app.Selection{Group: true, Students: false})
		})

		convey.Convey("Then 'students' selects student records only", func() {
			convey.So(app.ParseTypes("students"), convey.ShouldResemble, app.Selection{Group: false, Students: true})
		})

		convey.Convey("Then 'group,students' selects both", func() {
			convey.So(app.ParseTypes("group,students"), convey.ShouldResemble, app.Selection{Group: true, Students: true})
		})

		convey.Convey("Then whitespace and case are tolerated", func() {
			convey.So(app.ParseTypes(" Students , GROUP "), convey.ShouldResemble, app.Selection{Group: true, Students: true})
		})

		convey.Convey("Then unknown tokens fall back to group records", func() {
			convey.So(app.ParseTypes("misc"), convey.ShouldResemble, app.Selection{Group: true, Students: false})
		})
	})
}

func TestService_GroupQueries(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := newTestService(t)
		ctx := context.Background()
		groupOnly := app.ParseTypes("")
		studentsOnly := app.ParseTypes("students")
		both := app.ParseTypes("group,students")

		convey.Convey("When querying item statistics", func() {
			convey.Convey("Then the default selection yields one record per domain", func() {
				records, err := svc.GroupItems(ctx, "lg-001", groupOnly)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(records), convey.ShouldEqual, 2)
				convey.So(records[0].ID, convey.ShouldEqual, "lg-001")
			})

			convey.Convey("Then the students selection yields one record per student per domain", func() {
				records, err := svc.GroupItems(ctx, "lg-001", studentsOnly)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(records), convey.ShouldEqual, 10)
				convey.So(records[0].ID, convey.ShouldNotEqual, "lg-001")
			})

			convey.Convey("Then both selections concatenate group before student records", func() {
				records, err := svc.GroupItems(ctx, "lg-001", both)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(records), convey.ShouldEqual, 12)
				convey.So(records[0].ID, convey.ShouldEqual, "lg-001")
			})
		})

		convey.Convey("When querying competence levels", func() {
			records, err := svc.GroupCompetenceLevels(ctx, "lg-001", groupOnly)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(records), convey.ShouldEqual, 1)

			convey.Convey("Then the distribution conserves the student count", func() {
				sum := 0
				for _, lvl := range records[0].Levels {
					sum += lvl.Frequency
				}
				convey.So(sum, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When querying aggregations", func() {
			records, err := svc.GroupAggregations(ctx, "lg-001", groupOnly)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(records), convey.ShouldEqual, 2)
			convey.So(records[0].Aggregations[0].Type, convey.ShouldEqual, "custom")
			convey.So(records[0].Aggregations[0].Value, convey.ShouldEqual, "le")
		})

		convey.Convey("When querying an unknown group", func() {
			_, err := svc.GroupItems(ctx, "lg-999", groupOnly)
			convey.So(err, convey.ShouldWrap, app.ErrNotFound)
		})
	})
}

func TestService_SchoolQueries(t *testing.T) {
	convey.Convey("Given a started service with a two group school", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		convey.Convey("When querying school item statistics", func() {
			records, err := svc.SchoolItems(ctx, "sc-001")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then school records come first, member group records after", func() {
				// two school-level domains plus two domains per member group
				convey.So(len(records), convey.ShouldEqual, 6)
				convey.So(records[0].ID, convey.ShouldEqual, "sc-001")
				convey.So(records[0].Name, convey.ShouldEqual, "Grundschule Mitte")
				convey.So(records[2].ID, convey.ShouldEqual, "lg-001")
				convey.So(records[4].ID, convey.ShouldEqual, "lg-002")
			})

			convey.Convey("Then school statistics cover the pooled population", func() {
				convey.So(records[0].Items[0].Statistics.Total, convey.ShouldEqual, 9)
			})
		})

		convey.Convey("When querying school competence levels", func() {
			records, err := svc.SchoolCompetenceLevels(ctx, "sc-001")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(records), convey.ShouldEqual, 3)

			convey.Convey("Then the merged distribution conserves all students", func() {
				sum := 0
				for _, lvl := range records[0].Levels {
					sum += lvl.Frequency
				}
				convey.So(sum, convey.ShouldEqual, 9)
			})
		})

		convey.Convey("When querying school aggregations", func() {
			records, err := svc.SchoolAggregations(ctx, "sc-001")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(records), convey.ShouldEqual, 6)
			convey.So(records[0].ID, convey.ShouldEqual, "sc-001")
		})

		convey.Convey("When querying an unknown school", func() {
			_, err := svc.SchoolItems(ctx, "sc-999")
			convey.So(err, convey.ShouldWrap, app.ErrNotFound)
		})
	})
}

func TestService_StateQueries(t *testing.T) {
	convey.Convey("Given a started service with a one booklet state", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		convey.Convey("When querying state item statistics", func() {
			records, err := svc.StateItems(ctx, "be")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then records are keyed by the booklet, one per domain", func() {
				convey.So(len(records), convey.ShouldEqual, 2)
				convey.So(records[0].ID, convey.ShouldEqual, "V3-2024-DE-TH01")
				convey.So(records[0].Name, convey.ShouldEqual, "V3-2024-DE-TH01")
				convey.So(records[0].Items[0].Statistics.Total, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When querying state competence levels", func() {
			records, err := svc.StateCompetenceLevels(ctx, "be")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(records), convey.ShouldEqual, 1)
			convey.So(records[0].ID, convey.ShouldEqual, "V3-2024-DE-TH01")
		})

		convey.Convey("When querying state aggregations", func() {
			records, err := svc.StateAggregations(ctx, "be")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(records), convey.ShouldEqual, 2)
		})

		convey.Convey("When querying an unknown state", func() {
			_, err := svc.StateAggregations(ctx, "xx")
			convey.So(err, convey.ShouldWrap, app.ErrNotFound)
		})
	})
}
