package booklet

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Required metadata columns. Load fails fast when any is absent.
var requiredColumns = []string{
	"vera", "tjahr", "fach", "iqbtestheft_id", "iqbitem_id", "name", "kstufe", "itemnr_th",
}

// Listening/reading style flag columns, checked in fixed order. The
// metadata files carry a spelling inconsistency ("detailliert" vs
// "detailiert") that is normalized here.
var styleColumns = []struct{ column, canonical string }{
	{"selektiv", "selektiv"},
	{"detailliert", "detailliert"},
	{"detailiert", "detailliert"},
	{"inferierend", "inferierend"},
	{"global", "global"},
}

var mathCompetenceColumns = []string{"K1", "K2", "K3", "K4", "K5", "K6", "A1", "A2", "A3", "A4", "A5"}
var coreIdeaColumns = []string{"L1", "L2", "L3", "L4", "L5"}

// loadBookletsFromCSV reads one semicolon-separated, Latin-1 encoded
// metadata file and groups its rows into booklets.
func loadBookletsFromCSV(path string) (map[Key]*Booklet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(decodeLatin1(raw)))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return map[Key]*Booklet{}, nil
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}

	booklets := make(map[Key]*Booklet)

	for _, record := range records[1:] {
		row := rowView{record: record, index: index}

		// Rows from alternative scaling models would duplicate items;
		// keep only the global model.
		if model := row.get("model"); model != "" && model != "global" {
			continue
		}

		level, err := strconv.Atoi(row.get("vera"))
		if err != nil {
			return nil, fmt.Errorf("cannot parse vera level %q: %w", row.get("vera"), err)
		}
		year, err := strconv.Atoi(row.get("tjahr"))
		if err != nil {
			return nil, fmt.Errorf("cannot parse year %q: %w", row.get("tjahr"), err)
		}

		key := Key{
			Level:     level,
			Year:      year,
			Subject:   strings.ToLower(row.get("fach")),
			BookletID: row.get("iqbtestheft_id"),
		}

		b, ok := booklets[key]
		if !ok {
			b = &Booklet{Key: key}
			booklets[key] = b
		}

		item := Item{
			ID:                       row.get("iqbitem_id"),
			Name:                     row.get("name"),
			Logit:                    row.float("logit"),
			Bista:                    row.float("bista"),
			CompetenceLevel:          row.get("kstufe"),
			Domain:                   row.get("domain"),
			NumberInBooklet:          row.get("itemnr_th"),
			OrderInBooklet:           row.float("itemord_th"),
			SolutionFreqPrimary:      row.optionalFloat("lh_gs"),
			SolutionFreqGymnasium:    row.optionalFloat("lh_gy"),
			SolutionFreqNonGymnasium: row.optionalFloat("lh_ng"),
			CompetenceStandards:      row.collect("kompstd1", "kompstd2", "kompstd3"),
			Style:                    row.style(),
			MathCompetences:          row.flagged(mathCompetenceColumns),
			CoreIdeas:                row.flagged(coreIdeaColumns),
			CognitiveDemandLevel:     row.demandLevel(),
		}

		b.Items = append(b.Items, item)
	}

	return booklets, nil
}

// decodeLatin1 converts ISO 8859-1 bytes to a UTF-8 string. In Latin-1
// every byte value maps directly to the same Unicode code point.
func decodeLatin1(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

// rowView provides typed access to one CSV record by column name.
type rowView struct {
	record []string
	index  map[string]int
}

// get returns the trimmed cell value, or "" for absent columns.
func (r rowView) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// float parses a numeric cell that may use a comma decimal separator.
// Missing or empty cells parse as 0.
func (r rowView) float(col string) float64 {
	s := r.get(col)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// optionalFloat parses a numeric cell, returning nil for missing data.
func (r rowView) optionalFloat(col string) *float64 {
	s := r.get(col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// flag reports whether a boolean flag cell is set (value "1").
func (r rowView) flag(col string) bool {
	return r.get(col) == "1"
}

// collect returns the non-empty values of the given columns.
func (r rowView) collect(cols ...string) []string {
	var values []string
	for _, col := range cols {
		if v := r.get(col); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// flagged returns the names of the given columns whose flag is set.
func (r rowView) flagged(cols []string) []string {
	var names []string
	for _, col := range cols {
		if r.flag(col) {
			names = append(names, col)
		}
	}
	return names
}

// style returns the canonical listening/reading style, or "".
func (r rowView) style() string {
	for _, s := range styleColumns {
		if r.flag(s.column) {
			return s.canonical
		}
	}
	return ""
}

// demandLevel returns the AFB cognitive demand level as a string, or "".
func (r rowView) demandLevel() string {
	s := r.get("AFB")
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return ""
	}
	return strconv.Itoa(int(v))
}
