package domain

import (
	"fmt"
	"strings"
	"time"
)

// MemberSnapshot представляет участника в форме, независимой от хранилища
type MemberSnapshot struct {
	ID             string
	Name           string
	LeaveDates     []time.Time
	IsEditing      bool
	EditName       *string
	EditLeaveDates []time.Time
}

// Snapshot возвращает снимок участника для сохранения
func (m *TeamMember) Snapshot() MemberSnapshot {
	c := m.Clone()
	return MemberSnapshot{
		ID:             c.ID,
		Name:           c.Name,
		LeaveDates:     c.LeaveDates,
		IsEditing:      c.IsEditing,
		EditName:       c.EditName,
		EditLeaveDates: c.EditLeaveDates,
	}
}

// Snapshots возвращает снимки всех участников в исходном порядке
func Snapshots(members []*TeamMember) []MemberSnapshot {
	out := make([]MemberSnapshot, 0, len(members))
	for _, m := range members {
		out = append(out, m.Snapshot())
	}
	return out
}

// RestoreMembers валидирует снимки из хранилища и восстанавливает участников
func RestoreMembers(snapshots []MemberSnapshot) ([]*TeamMember, error) {
	members := make([]*TeamMember, 0, len(snapshots))
	seen := make(map[string]struct{}, len(snapshots))

	for i, s := range snapshots {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrCorruptState, i)
		}
		if _, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrCorruptState, s.ID)
		}
		seen[s.ID] = struct{}{}

		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: record %q has an empty name", ErrCorruptState, s.ID)
		}
		if len(s.LeaveDates) == 0 {
			return nil, fmt.Errorf("%w: record %q has no leave dates", ErrCorruptState, s.ID)
		}

		m := &TeamMember{
			ID:         s.ID,
			Name:       name,
			LeaveDates: NormalizeDates(s.LeaveDates),
		}
		if s.IsEditing {
			m.StartEdit()
			if err := m.SetDraft(s.EditName, s.EditLeaveDates); err != nil {
				return nil, err
			}
		}
		members = append(members, m)
	}

	return members, nil
}
