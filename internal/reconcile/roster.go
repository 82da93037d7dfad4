package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// DefaultFirstNameColumn and DefaultLastNameColumn are the header names found
// in the roster exports this tool was built for.
const (
	DefaultFirstNameColumn = "First name"
	DefaultLastNameColumn  = "Last name"
)

// RosterOptions names the columns the join key is built from. Zero values
// fall back to the defaults, so any tabular source with nameable first/last
// columns can serve as a roster.
type RosterOptions struct {
	FirstNameColumn string
	LastNameColumn  string
}

// Roster is the externally supplied attendee table: a header and rows in
// source order, plus the precomputed join key per row.
type Roster struct {
	Columns []string
	Rows    []RosterRow
}

type RosterRow struct {
	Key    string
	Fields []string
}

// LoadRosterCSV reads the roster from a CSV file.
func LoadRosterCSV(path string, opts RosterOptions) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open roster file: %w", err)
	}
	defer f.Close()

	roster, err := ReadRoster(f, opts)
	if err != nil {
		return nil, fmt.Errorf("roster file %s: %w", path, err)
	}

	return roster, nil
}

// ReadRoster parses CSV roster data. The header row must contain the
// configured first and last name columns; no other schema validation is done.
func ReadRoster(r io.Reader, opts RosterOptions) (*Roster, error) {
	if opts.FirstNameColumn == "" {
		opts.FirstNameColumn = DefaultFirstNameColumn
	}

	if opts.LastNameColumn == "" {
		opts.LastNameColumn = DefaultLastNameColumn
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("roster is empty")
	}

	header := records[0]

	firstIdx, lastIdx := -1, -1
	for i, col := range header {
		switch col {
		case opts.FirstNameColumn:
			firstIdx = i
		case opts.LastNameColumn:
			lastIdx = i
		}
	}

	if firstIdx < 0 {
		return nil, fmt.Errorf("roster is missing column %q", opts.FirstNameColumn)
	}

	if lastIdx < 0 {
		return nil, fmt.Errorf("roster is missing column %q", opts.LastNameColumn)
	}

	roster := &Roster{
		Columns: header,
		Rows:    make([]RosterRow, 0, len(records)-1),
	}

	for _, rec := range records[1:] {
		// Short rows pad out to the header width so merge output stays
		// rectangular.
		fields := make([]string, len(header))
		copy(fields, rec)

		roster.Rows = append(roster.Rows, RosterRow{
			Key:    FullNameKey(fields[firstIdx], fields[lastIdx]),
			Fields: fields,
		})
	}

	return roster, nil
}
