package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/leave-tracker/internal/domain"
)

func testMembers() []*domain.TeamMember {
	return []*domain.TeamMember{
		{ID: "1", Name: "Alice, Jr.", LeaveDates: []time.Time{domain.NewDate(2025, 1, 15), domain.NewDate(2025, 1, 3), domain.NewDate(2024, 12, 31)}},
		{ID: "2", Name: "Bob", LeaveDates: []time.Time{domain.NewDate(2025, 1, 3), domain.NewDate(2025, 1, 3)}},
	}
}

func TestEntries(t *testing.T) {
	entries := Entries(testMembers(), 2025)

	require.Len(t, entries, 4)
	assert.Equal(t, "Alice, Jr.", entries[0].Name)
	assert.Equal(t, 3, entries[0].Date.Day())
	assert.Equal(t, "Bob", entries[1].Name)
	assert.Equal(t, 15, entries[3].Date.Day())
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)

	require.NoError(t, WriteICS(&buf, testMembers(), 2025, now))
	body := buf.String()

	for _, field := range []string{
		"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:" + ICSProductID, "END:VCALENDAR",
		"DTSTART;VALUE=DATE:20250103", "DTEND;VALUE=DATE:20250104",
		"SUMMARY:Alice\\, Jr. on leave", "DTSTAMP:20250301T083000Z",
		"UID:2-20250103@leave-tracker", "UID:2-20250103-2@leave-tracker",
	} {
		assert.Contains(t, body, field)
	}

	assert.Equal(t, 4, strings.Count(body, "BEGIN:VEVENT"))
	assert.NotContains(t, body, "20241231", "other years are not exported")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testMembers(), 2025))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "member_id,name,date", lines[0])
	assert.Equal(t, `1,"Alice, Jr.",2025-01-03`, lines[1])
	assert.Equal(t, "1,\"Alice, Jr.\",2025-01-15", lines[4])
}
