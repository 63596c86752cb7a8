package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aidar/leave-tracker/internal/domain"
)

const (
	// ICSProductID идентификатор продукта в заголовке календаря
	ICSProductID   = "-//Leave Tracker//Leave Dates//EN"
	icsStampLayout = "20060102T150405Z"
	icsDateLayout  = "20060102"
)

// Entry одна дата отпуска одного участника
type Entry struct {
	MemberID string
	Name     string
	Date     time.Time
}

// Entries собирает сохраненные даты участников за год, отсортированные по дате и имени
func Entries(members []*domain.TeamMember, year int) []Entry {
	var entries []Entry
	for _, m := range members {
		for _, d := range m.LeaveDates {
			if d.Year() != year {
				continue
			}
			entries = append(entries, Entry{MemberID: m.ID, Name: m.Name, Date: d})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// WriteICS пишет календарь iCalendar с событием на весь день для каждой даты отпуска
func WriteICS(w io.Writer, members []*domain.TeamMember, year int, now time.Time) error {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	fmt.Fprintf(&b, "PRODID:%s\r\n", ICSProductID)
	fmt.Fprintf(&b, "X-WR-CALNAME:Leave dates %d\r\n", year)
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	stamp := now.UTC().Format(icsStampLayout)
	seen := make(map[string]int)
	for _, e := range Entries(members, year) {
		// UID стабилен между выгрузками; повторы одной даты получают суффикс
		uid := fmt.Sprintf("%s-%s", e.MemberID, e.Date.Format(icsDateLayout))
		seen[uid]++
		if n := seen[uid]; n > 1 {
			uid = fmt.Sprintf("%s-%d", uid, n)
		}

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s@leave-tracker\r\n", uid)
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", stamp)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", e.Date.Format(icsDateLayout))
		fmt.Fprintf(&b, "DTEND;VALUE=DATE:%s\r\n", e.Date.AddDate(0, 0, 1).Format(icsDateLayout))
		fmt.Fprintf(&b, "SUMMARY:%s on leave\r\n", escapeText(e.Name))
		b.WriteString("TRANSP:TRANSPARENT\r\n")
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV пишет строки member_id,name,date
func WriteCSV(w io.Writer, members []*domain.TeamMember, year int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"member_id", "name", "date"}); err != nil {
		return err
	}
	for _, e := range Entries(members, year) {
		if err := cw.Write([]string{e.MemberID, e.Name, e.Date.Format(domain.DateLayout)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escapeText(s string) string {
	return icsEscaper.Replace(s)
}
