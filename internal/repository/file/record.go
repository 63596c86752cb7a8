package file

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aidar/leave-tracker/internal/domain"
)

// memberRecord повторяет форму записи, которую браузер кладет в localStorage
type memberRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	LeaveDates     []string `json:"leaveDates"`
	IsEditing      bool     `json:"isEditing"`
	EditName       *string  `json:"editName,omitempty"`
	EditLeaveDates []string `json:"editLeaveDates,omitempty"`
}

func toRecord(s domain.MemberSnapshot) memberRecord {
	rec := memberRecord{
		ID:         s.ID,
		Name:       s.Name,
		LeaveDates: domain.FormatDates(s.LeaveDates),
		IsEditing:  s.IsEditing,
	}
	if s.IsEditing {
		rec.EditName = s.EditName
		rec.EditLeaveDates = domain.FormatDates(s.EditLeaveDates)
	}
	return rec
}

func (r memberRecord) snapshot() (domain.MemberSnapshot, error) {
	dates, err := parseStoredDates(r.LeaveDates)
	if err != nil {
		return domain.MemberSnapshot{}, fmt.Errorf("%w: member %q: %v", domain.ErrCorruptState, r.ID, err)
	}

	s := domain.MemberSnapshot{
		ID:         r.ID,
		Name:       r.Name,
		LeaveDates: dates,
		IsEditing:  r.IsEditing,
		EditName:   r.EditName,
	}
	if r.EditLeaveDates != nil {
		editDates, err := parseStoredDates(r.EditLeaveDates)
		if err != nil {
			return domain.MemberSnapshot{}, fmt.Errorf("%w: member %q draft: %v", domain.ErrCorruptState, r.ID, err)
		}
		s.EditLeaveDates = editDates
	}
	return s, nil
}

// DecodeMembers разбирает JSON-массив записей участников.
// Любая ошибка формы данных возвращается как domain.ErrCorruptState.
func DecodeMembers(data []byte) ([]domain.MemberSnapshot, error) {
	var records []memberRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}

	snapshots := make([]domain.MemberSnapshot, 0, len(records))
	for _, rec := range records {
		s, err := rec.snapshot()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

// DecodeImport принимает и голый JSON-массив участников, и целый документ хранилища
func DecodeImport(data []byte) ([]domain.MemberSnapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
		}
		raw, ok := doc[StorageKey]
		if !ok {
			return nil, fmt.Errorf("%w: no %q key", domain.ErrCorruptState, StorageKey)
		}
		trimmed = raw
	}
	return DecodeMembers(trimmed)
}

// EncodeMembers сериализует участников в JSON-массив записей
func EncodeMembers(members []domain.MemberSnapshot) ([]byte, error) {
	records := make([]memberRecord, 0, len(members))
	for _, m := range members {
		records = append(records, toRecord(m))
	}
	return json.Marshal(records)
}

// parseStoredDates принимает YYYY-MM-DD и RFC 3339 (так даты пишет браузер).
// Для RFC 3339 берется календарный день в локальной зоне.
func parseStoredDates(values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		if d, err := time.Parse(domain.DateLayout, v); err == nil {
			dates = append(dates, d)
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", v)
		}
		dates = append(dates, domain.DateOf(t.In(time.Local)))
	}
	return dates, nil
}
