package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gertd/go-pluralize"
	"github.com/samber/lo"
)

// EmptyCell отображается в ячейке месяца без дат отпуска
const EmptyCell = "-"

// Months короткие названия месяцев для заголовков таблицы
var Months = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var plural = pluralize.NewClient()

// Bucket представляет даты отпуска участника за один месяц
type Bucket struct {
	Month time.Month `json:"month"`
	Days  []int      `json:"days"`
	Text  string     `json:"text"` // Дни через ", ", пустая строка если дат нет
}

// Empty возвращает true если в месяце нет дат отпуска
func (b Bucket) Empty() bool {
	return b.Text == ""
}

// Display возвращает текст ячейки: дни месяца либо "-"
func (b Bucket) Display() string {
	if b.Empty() {
		return EmptyCell
	}
	return b.Text
}

// MonthBucket отбирает даты месяца month года year, сортирует по возрастанию
// и форматирует как номера дней через ", ". Даты других годов не попадают ни в один месяц.
func (m *TeamMember) MonthBucket(year int, month time.Month) Bucket {
	return bucketDates(m.LeaveDates, year, month)
}

func bucketDates(dates []time.Time, year int, month time.Month) Bucket {
	inMonth := lo.Filter(dates, func(d time.Time, _ int) bool {
		return d.Month() == month && d.Year() == year
	})
	sort.SliceStable(inMonth, func(i, j int) bool {
		return inMonth[i].Before(inMonth[j])
	})

	days := lo.Map(inMonth, func(d time.Time, _ int) int {
		return d.Day()
	})
	text := strings.Join(lo.Map(days, func(d int, _ int) string {
		return strconv.Itoa(d)
	}), ", ")

	return Bucket{Month: month, Days: days, Text: text}
}

// CalendarRow одна строка таблицы: участник и двенадцать месяцев
type CalendarRow struct {
	MemberID  string   `json:"member_id"`
	Name      string   `json:"name"`
	IsEditing bool     `json:"is_editing"`
	Cells     []Bucket `json:"cells"`
}

// Calendar таблица отпусков за год
type Calendar struct {
	Year    int           `json:"year"`
	Months  []string      `json:"months"`
	Rows    []CalendarRow `json:"rows"`
	Count   int           `json:"count"`
	Summary string        `json:"summary"`
}

// BuildCalendar строит таблицу отпусков всех участников за год
func BuildCalendar(members []*TeamMember, year int) Calendar {
	rows := make([]CalendarRow, 0, len(members))
	for _, m := range members {
		row := CalendarRow{
			MemberID:  m.ID,
			Name:      m.Name,
			IsEditing: m.IsEditing,
			Cells:     make([]Bucket, 0, len(Months)),
		}
		for month := time.January; month <= time.December; month++ {
			row.Cells = append(row.Cells, m.MonthBucket(year, month))
		}
		rows = append(rows, row)
	}

	return Calendar{
		Year:    year,
		Months:  Months,
		Rows:    rows,
		Count:   len(members),
		Summary: MemberSummary(len(members)),
	}
}

// MemberSummary возвращает подпись вида "3 team members"
func MemberSummary(count int) string {
	return fmt.Sprintf("%d team %s", count, plural.Pluralize("member", count, false))
}

// ParseMonth проверяет номер месяца 1..12
func ParseMonth(n int) (time.Month, error) {
	if n < 1 || n > 12 {
		return 0, ErrInvalidMonth
	}
	return time.Month(n), nil
}
