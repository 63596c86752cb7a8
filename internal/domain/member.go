package domain

import (
	"strings"
	"time"
)

// TeamMember представляет участника команды с датами отпуска
type TeamMember struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	LeaveDates     []time.Time `json:"leave_dates"`
	IsEditing      bool        `json:"is_editing"`
	EditName       *string     `json:"edit_name,omitempty"`        // Черновик имени, только в режиме редактирования
	EditLeaveDates []time.Time `json:"edit_leave_dates,omitempty"` // Черновик дат, только в режиме редактирования
}

// NewTeamMember создает участника, если имя после trim не пустое и есть хотя бы одна дата
func NewTeamMember(id, name string, dates []time.Time) (*TeamMember, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(dates) == 0 {
		return nil, ErrMemberRejected
	}
	return &TeamMember{
		ID:         id,
		Name:       name,
		LeaveDates: NormalizeDates(dates),
	}, nil
}

// StartEdit переводит участника в режим редактирования, копируя текущие значения в черновик
func (m *TeamMember) StartEdit() {
	name := m.Name
	m.IsEditing = true
	m.EditName = &name
	m.EditLeaveDates = append([]time.Time(nil), m.LeaveDates...)
}

// SetDraft заменяет поля черновика; nil означает "не менять"
func (m *TeamMember) SetDraft(name *string, dates []time.Time) error {
	if !m.IsEditing {
		return ErrNotEditing
	}
	if name != nil {
		n := *name
		m.EditName = &n
	}
	if dates != nil {
		m.EditLeaveDates = NormalizeDates(dates)
	}
	return nil
}

// SetDraftMonth заменяет даты черновика, попадающие в месяц month года year
func (m *TeamMember) SetDraftMonth(year int, month time.Month, dates []time.Time) error {
	if !m.IsEditing {
		return ErrNotEditing
	}
	if month < time.January || month > time.December {
		return ErrInvalidMonth
	}

	merged := make([]time.Time, 0, len(m.EditLeaveDates)+len(dates))
	for _, d := range m.EditLeaveDates {
		if d.Month() != month || d.Year() != year {
			merged = append(merged, d)
		}
	}
	merged = append(merged, NormalizeDates(dates)...)
	m.EditLeaveDates = merged
	return nil
}

// CommitEdit переносит черновик в основные поля и выходит из режима редактирования.
// При пустом черновике участник остается в режиме редактирования.
func (m *TeamMember) CommitEdit() error {
	if !m.IsEditing {
		return ErrNotEditing
	}
	if m.EditName == nil || strings.TrimSpace(*m.EditName) == "" || len(m.EditLeaveDates) == 0 {
		return ErrInvalidDraft
	}

	m.Name = strings.TrimSpace(*m.EditName)
	m.LeaveDates = m.EditLeaveDates
	m.clearDraft()
	return nil
}

// CancelEdit отбрасывает черновик, основные поля не меняются
func (m *TeamMember) CancelEdit() error {
	if !m.IsEditing {
		return ErrNotEditing
	}
	m.clearDraft()
	return nil
}

func (m *TeamMember) clearDraft() {
	m.IsEditing = false
	m.EditName = nil
	m.EditLeaveDates = nil
}

// Clone возвращает глубокую копию участника
func (m *TeamMember) Clone() *TeamMember {
	c := *m
	c.LeaveDates = append([]time.Time(nil), m.LeaveDates...)
	if m.EditName != nil {
		n := *m.EditName
		c.EditName = &n
	}
	if m.EditLeaveDates != nil {
		c.EditLeaveDates = append([]time.Time(nil), m.EditLeaveDates...)
	}
	return &c
}
