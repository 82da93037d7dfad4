package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster(t *testing.T, csvData string) *Roster {
	t.Helper()

	roster, err := ReadRoster(strings.NewReader(csvData), RosterOptions{})
	require.NoError(t, err)
	return roster
}

func TestMergeMatchedTicket(t *testing.T) {
	assert := assert.New(t)

	tickets := []Ticket{
		{Name: "Jane Doe", Username: "jd", Status: "YES", Answer: nil},
	}

	roster := testRoster(t, "First name,Last name,Company\njane,doe,Acme")

	report := Merge(tickets, roster)

	assert.Equal([]string{"name", "username", "status", "answer", "First name", "Last name", "Company"}, report.Columns)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal("Jane Doe", *row[0])
	assert.Equal("jd", *row[1])
	assert.Equal("YES", *row[2])

	// A ticket without an answer keeps a null cell, not an empty string.
	assert.Nil(row[3])

	assert.Equal("jane", *row[4])
	assert.Equal("doe", *row[5])
	assert.Equal("Acme", *row[6])
}

func TestMergeUnmatchedTicketIsRetained(t *testing.T) {
	tickets := []Ticket{
		{Name: "John Smith", Username: "js", Status: "YES"},
	}

	roster := testRoster(t, "First name,Last name,Company\njane,doe,Acme")

	report := Merge(tickets, roster)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "John Smith", *row[0])

	for i := 4; i < len(row); i++ {
		assert.Nil(t, row[i])
	}
}

func TestMergeDuplicateRosterKeysFanOut(t *testing.T) {
	tickets := []Ticket{
		{Name: "Jane Doe", Username: "jd", Status: "YES"},
	}

	roster := testRoster(t, strings.Join([]string{
		"First name,Last name,Company",
		"Jane,Doe,Acme",
		" jane , doe ,Globex",
	}, "\n"))

	report := Merge(tickets, roster)
	require.Len(t, report.Rows, 2)

	assert.Equal(t, "Acme", *report.Rows[0][6])
	assert.Equal(t, "Globex", *report.Rows[1][6])
}

func TestMergeDropsUnmatchedRosterRows(t *testing.T) {
	tickets := []Ticket{
		{Name: "Jane Doe", Username: "jd", Status: "YES"},
	}

	roster := testRoster(t, strings.Join([]string{
		"First name,Last name",
		"Jane,Doe",
		"Nobody,Came",
	}, "\n"))

	report := Merge(tickets, roster)
	assert.Len(t, report.Rows, 1)
}

func TestMergeKeyNormalization(t *testing.T) {
	// Mixed casing and messy whitespace on either side still join.
	tickets := []Ticket{
		{Name: "JANE   DOE", Username: "jd", Status: "YES"},
	}

	roster := testRoster(t, "First name,Last name\n jAnE ,  dOe ")

	report := Merge(tickets, roster)
	require.Len(t, report.Rows, 1)
	assert.NotNil(t, report.Rows[0][4])
}
