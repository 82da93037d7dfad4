package reconcile

// Report is the merged attendee table: ticket columns first, then the roster
// columns in their source order. A nil cell is a null, which is how unmatched
// roster fields and absent ticket answers are represented.
type Report struct {
	Columns []string
	Rows    [][]*string
}

var ticketColumns = []string{"name", "username", "status", "answer"}

// Merge left-joins tickets (driving set) against the roster (lookup set) on
// the normalized full-name key. Every ticket produces at least one output
// row; a ticket matching several roster rows fans out into one row per match;
// roster rows with no ticket are dropped.
func Merge(tickets []Ticket, roster *Roster) *Report {
	byKey := make(map[string][]int, len(roster.Rows))
	for i, row := range roster.Rows {
		byKey[row.Key] = append(byKey[row.Key], i)
	}

	report := &Report{
		Columns: append(append([]string{}, ticketColumns...), roster.Columns...),
	}

	for _, t := range tickets {
		matches := byKey[NameKey(t.Name)]

		if len(matches) == 0 {
			report.Rows = append(report.Rows, mergedRow(t, nil, len(roster.Columns)))
			continue
		}

		for _, i := range matches {
			report.Rows = append(report.Rows, mergedRow(t, roster.Rows[i].Fields, len(roster.Columns)))
		}
	}

	return report
}

func mergedRow(t Ticket, rosterFields []string, rosterWidth int) []*string {
	row := make([]*string, 0, len(ticketColumns)+rosterWidth)

	row = append(row, ptr(t.Name), ptr(t.Username), ptr(t.Status), t.Answer)

	if rosterFields == nil {
		for i := 0; i < rosterWidth; i++ {
			row = append(row, nil)
		}
		return row
	}

	for _, f := range rosterFields {
		row = append(row, ptr(f))
	}

	return row
}

func ptr(s string) *string {
	return &s
}
