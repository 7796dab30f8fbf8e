package equivalence

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/verasim/verasim/internal/domain/booklet"
)

// tablesFile mirrors the root of equivalence_tables.yml.
type tablesFile struct {
	Tables []Table `koanf:"tables"`
}

// Load reads equivalence tables from a YAML file and validates every
// table's ranges and, when a catalog is given, its item-count coverage.
// Validation failure is fatal to startup, never recovered per request.
func Load(path string, catalog *booklet.Catalog) ([]Table, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTables, err)
	}

	var f tablesFile
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTables, err)
	}

	for _, t := range f.Tables {
		if err := t.validateRanges(); err != nil {
			return nil, err
		}
		if catalog != nil {
			if err := t.validateAgainstCatalog(catalog); err != nil {
				return nil, err
			}
		}
	}

	return f.Tables, nil
}

// ForBooklet returns all tables whose booklet reference parses to key,
// preserving file order.
func ForBooklet(tables []Table, key booklet.Key) []Table {
	var matched []Table
	for _, t := range tables {
		k, err := t.BookletKey()
		if err == nil && k == key {
			matched = append(matched, t)
		}
	}
	return matched
}
