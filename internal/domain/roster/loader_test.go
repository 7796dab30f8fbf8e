package roster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/verasim/verasim/internal/domain/roster"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGroups(t *testing.T) {
	convey.Convey("Given a valid groups file", t, func() {
		path := writeConfig(t, "groups.yml", `defaults:
  covariates:
    - type: gender
      categories: [m, w]
      probabilities: [0.5, 0.5]
groups:
  - id: lg-001
    name: Klasse 3a
    booklet: V3-2024-DE-TH01
    ability_mean: 0.2
    ability_std: 1.1
    size: 25
  - id: lg-002
    booklet: V3-2024-DE-TH01
    ability_std: 1.0
    size: 20
    seed: shared
    covariates:
      - type: gender
        categories: [m, w]
        probabilities: [0.4, 0.6]
`)

		f, err := roster.LoadGroups(path)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then groups and defaults should be populated", func() {
			convey.So(len(f.Groups), convey.ShouldEqual, 2)
			convey.So(f.Groups[0].ID, convey.ShouldEqual, "lg-001")
			convey.So(f.Groups[0].AbilityMean, convey.ShouldAlmostEqual, 0.2)
			convey.So(f.Groups[1].Seed, convey.ShouldEqual, "shared")
			convey.So(len(f.DefaultCovariates()), convey.ShouldEqual, 1)

			key, err := f.Groups[0].BookletKey()
			convey.So(err, convey.ShouldBeNil)
			convey.So(key.String(), convey.ShouldEqual, "V3-2024-DE-TH01")
		})
	})

	convey.Convey("Given defective groups files", t, func() {
		convey.Convey("Then duplicate ids should be rejected", func() {
			path := writeConfig(t, "groups.yml", `groups:
  - {id: lg-001, booklet: V3-2024-DE-TH01, ability_std: 1, size: 10}
  - {id: lg-001, booklet: V3-2024-DE-TH01, ability_std: 1, size: 10}
`)
			_, err := roster.LoadGroups(path)
			convey.So(err, convey.ShouldWrap, roster.ErrDuplicateID)
		})

		convey.Convey("Then a non-positive size should be rejected", func() {
			path := writeConfig(t, "groups.yml", `groups:
  - {id: lg-001, booklet: V3-2024-DE-TH01, ability_std: 1, size: 0}
`)
			_, err := roster.LoadGroups(path)
			convey.So(err, convey.ShouldWrap, roster.ErrInvalidConfig)
		})

		convey.Convey("Then a zero ability_std should be rejected", func() {
			path := writeConfig(t, "groups.yml", `groups:
  - {id: lg-001, booklet: V3-2024-DE-TH01, ability_std: 0, size: 10}
`)
			_, err := roster.LoadGroups(path)
			convey.So(err, convey.ShouldWrap, roster.ErrInvalidConfig)
		})

		convey.Convey("Then a malformed booklet reference should be rejected", func() {
			path := writeConfig(t, "groups.yml", `groups:
  - {id: lg-001, booklet: TH01, ability_std: 1, size: 10}
`)
			_, err := roster.LoadGroups(path)
			convey.So(err, convey.ShouldWrap, roster.ErrInvalidConfig)
		})

		convey.Convey("Then invalid default covariates should be rejected", func() {
			path := writeConfig(t, "groups.yml", `defaults:
  covariates:
    - type: gender
      categories: [m, w]
      probabilities: [0.5, 0.4]
groups: []
`)
			_, err := roster.LoadGroups(path)
			convey.So(err, convey.ShouldWrap, roster.ErrInvalidConfig)
		})

		convey.Convey("Then a missing file should be reported", func() {
			_, err := roster.LoadGroups(filepath.Join(t.TempDir(), "nope.yml"))
			convey.So(err, convey.ShouldWrap, roster.ErrLoadConfig)
		})
	})
}

func TestLoadSchools(t *testing.T) {
	convey.Convey("Given a valid schools file", t, func() {
		path := writeConfig(t, "schools.yml", `schools:
  - id: sc-001
    name: Grundschule Mitte
    groups: [lg-001, lg-002]
`)
		f, err := roster.LoadSchools(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(f.Schools), convey.ShouldEqual, 1)
		convey.So(f.Schools[0].Groups, convey.ShouldResemble, []string{"lg-001", "lg-002"})
	})

	convey.Convey("Given a school without groups", t, func() {
		path := writeConfig(t, "schools.yml", `schools:
  - {id: sc-001, groups: []}
`)
		_, err := roster.LoadSchools(path)
		convey.So(err, convey.ShouldWrap, roster.ErrInvalidConfig)
	})
}

func TestLoadStates(t *testing.T) {
	convey.Convey("Given a valid states file", t, func() {
		path := writeConfig(t, "states.yml", `states:
  - id: be
    name: Berlin
    booklets: [V3-2024-DE-TH01, V3-2024-MA-TH02]
    ability_mean: -0.1
    ability_std: 1.2
    size: 500
`)
		f, err := roster.LoadStates(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(f.States), convey.ShouldEqual, 1)

		keys, err := f.States[0].BookletKeys()
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(keys), convey.ShouldEqual, 2)
		convey.So(keys[1].Subject, convey.ShouldEqual, "ma")
	})

	convey.Convey("Given a state without booklets", t, func() {
		path := writeConfig(t, "states.yml", `states:
  - {id: be, booklets: [], ability_std: 1, size: 100}
`)
		_, err := roster.LoadStates(path)
		convey.So(err, convey.ShouldWrap, roster.ErrInvalidConfig)
	})
}
