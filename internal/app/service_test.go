package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/verasim/verasim/internal/app"
)

const testMetadata = "vera;tjahr;fach;iqbtestheft_id;iqbitem_id;name;kstufe;itemnr_th;itemord_th;logit;domain\n" +
	"3;2024;DE;TH01;D1;Lesen 1;I;1.1;1;-0,5;le\n" +
	"3;2024;DE;TH01;D2;Lesen 2;I;1.2;2;0,0;le\n" +
	"3;2024;DE;TH01;D3;Lesen 3;II;1.3;3;0,5;le\n" +
	"3;2024;DE;TH01;D4;Hören 1;II;2.1;4;1,0;ho\n"

const testGroups = `defaults:
  covariates:
    - type: gender
      categories: [m, w]
      probabilities: [0.5, 0.5]
groups:
  - id: lg-001
    name: Klasse 3a
    booklet: V3-2024-DE-TH01
    ability_mean: 0.2
    ability_std: 1.0
    size: 5
  - id: lg-002
    booklet: V3-2024-DE-TH01
    ability_mean: -0.3
    ability_std: 1.2
    size: 4
`

const testSchools = `schools:
  - id: sc-001
    name: Grundschule Mitte
    groups: [lg-001, lg-002]
`

const testStates = `states:
  - id: be
    name: Berlin
    booklets: [V3-2024-DE-TH01]
    ability_mean: 0.0
    ability_std: 1.0
    size: 10
`

const testTables = `tables:
  - booklet: V3-2024-DE-TH01
    competence_levels:
      - {name_short: I, name: Kompetenzstufe I, min_score: 0, max_score: 1}
      - {name_short: II, name: Kompetenzstufe II, min_score: 2, max_score: 4}
`

// newTestService builds a started service over a throwaway metadata and
// config tree.
func newTestService(t *testing.T) *app.Service {
	t.Helper()

	metadataDir := t.TempDir()
	configDir := t.TempDir()

	files := map[string]string{
		filepath.Join(metadataDir, "vera3.csv"):            testMetadata,
		filepath.Join(configDir, "groups.yml"):             testGroups,
		filepath.Join(configDir, "schools.yml"):            testSchools,
		filepath.Join(configDir, "states.yml"):             testStates,
		filepath.Join(configDir, "equivalence_tables.yml"): testTables,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	svc := app.New(app.WithMetadataDir(metadataDir), app.WithConfigDir(configDir))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("starting service: %v", err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	convey.Convey("Given a complete metadata and config tree", t, func() {
		svc := newTestService(t)

		convey.Convey("Then the catalog should be loaded", func() {
			convey.So(svc.Catalog().Count(), convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given a config tree without optional files", t, func() {
		metadataDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(metadataDir, "vera3.csv"), []byte(testMetadata), 0o644); err != nil {
			t.Fatal(err)
		}

		svc := app.New(app.WithMetadataDir(metadataDir), app.WithConfigDir(t.TempDir()))

		convey.Convey("Then startup should succeed with an empty roster", func() {
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)

			_, err := svc.ResolveGroup(context.Background(), "lg-001")
			convey.So(err, convey.ShouldWrap, app.ErrNotFound)
		})
	})

	convey.Convey("Given an unstarted service", t, func() {
		svc := app.New()
		_, err := svc.ResolveGroup(context.Background(), "lg-001")
		convey.So(err, convey.ShouldWrap, app.ErrNotStarted)
	})

	convey.Convey("Given a missing metadata directory", t, func() {
		svc := app.New(app.WithMetadataDir(filepath.Join(t.TempDir(), "nope")), app.WithConfigDir(t.TempDir()))
		convey.So(svc.Start(context.Background()), convey.ShouldNotBeNil)
	})
}

func TestService_ResolveGroup(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		convey.Convey("Then resolving twice should yield identical data", func() {
			first, err := svc.ResolveGroup(ctx, "lg-001")
			convey.So(err, convey.ShouldBeNil)
			second, err := svc.ResolveGroup(ctx, "lg-001")
			convey.So(err, convey.ShouldBeNil)

			convey.So(second.Data.Students, convey.ShouldResemble, first.Data.Students)
			convey.So(second.Data.Responses, convey.ShouldResemble, first.Data.Responses)
		})

		convey.Convey("Then the group carries its booklet's tables and defaults", func() {
			gwt, err := svc.ResolveGroup(ctx, "lg-001")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(gwt.Tables), convey.ShouldEqual, 1)
			convey.So(len(gwt.Data.Students), convey.ShouldEqual, 5)
			convey.So(gwt.Data.Profile.Name, convey.ShouldEqual, "Klasse 3a")
			// the default covariate applies to every student
			convey.So(gwt.Data.Students[0].Covariates[0].Type, convey.ShouldEqual, "gender")
		})

		convey.Convey("Then a group without a configured name falls back to its id", func() {
			gwt, err := svc.ResolveGroup(ctx, "lg-002")
			convey.So(err, convey.ShouldBeNil)
			convey.So(gwt.Data.Profile.Name, convey.ShouldEqual, "Lerngruppe lg-002")
		})

		convey.Convey("Then an unknown id should be reported as not found", func() {
			_, err := svc.ResolveGroup(ctx, "lg-999")
			convey.So(err, convey.ShouldWrap, app.ErrNotFound)
		})
	})
}

func TestService_ResolveState(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		convey.Convey("Then a state should synthesize one group per booklet", func() {
			groups, err := svc.ResolveState(ctx, "be")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(groups), convey.ShouldEqual, 1)
			convey.So(groups[0].Data.GroupID, convey.ShouldEqual, "be:V3-2024-DE-TH01")
			convey.So(len(groups[0].Data.Students), convey.ShouldEqual, 10)
		})

		convey.Convey("Then resolving twice should stay deterministic", func() {
			first, err := svc.ResolveState(ctx, "be")
			convey.So(err, convey.ShouldBeNil)
			second, err := svc.ResolveState(ctx, "be")
			convey.So(err, convey.ShouldBeNil)
			convey.So(second[0].Data.Responses, convey.ShouldResemble, first[0].Data.Responses)
		})

		convey.Convey("Then an unknown state should be reported as not found", func() {
			_, err := svc.ResolveState(ctx, "xx")
			convey.So(err, convey.ShouldWrap, app.ErrNotFound)
		})
	})
}
