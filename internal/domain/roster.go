package domain

import "time"

// Roster хранит упорядоченный список участников и следит за тем,
// чтобы в режиме редактирования одновременно находился не более чем один участник
type Roster struct {
	members []*TeamMember
	ids     *IDGenerator
}

// NewRoster создает список поверх уже восстановленных участников
func NewRoster(members []*TeamMember, ids *IDGenerator) *Roster {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	return &Roster{members: members, ids: ids}
}

// Len возвращает количество участников
func (r *Roster) Len() int {
	return len(r.members)
}

// Members возвращает копии участников в порядке добавления
func (r *Roster) Members() []*TeamMember {
	out := make([]*TeamMember, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m.Clone())
	}
	return out
}

// Clone возвращает независимую копию списка с тем же генератором ID
func (r *Roster) Clone() *Roster {
	return &Roster{members: r.Members(), ids: r.ids}
}

// Get возвращает копию участника по ID
func (r *Roster) Get(id string) (*TeamMember, error) {
	m, err := r.find(id)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// Add добавляет нового участника. При пустом имени или пустом наборе дат список не меняется.
func (r *Roster) Add(name string, dates []time.Time) (*TeamMember, error) {
	m, err := NewTeamMember("", name, dates)
	if err != nil {
		return nil, err
	}
	m.ID = r.ids.Next()
	r.members = append(r.members, m)
	return m.Clone(), nil
}

// Remove удаляет ровно одного участника с указанным ID
func (r *Roster) Remove(id string) error {
	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return ErrMemberNotFound
}

// Editing возвращает ID участника в режиме редактирования
func (r *Roster) Editing() (string, bool) {
	for _, m := range r.members {
		if m.IsEditing {
			return m.ID, true
		}
	}
	return "", false
}

// BeginEdit переводит участника в режим редактирования
func (r *Roster) BeginEdit(id string) (*TeamMember, error) {
	m, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if _, ok := r.Editing(); ok {
		return nil, ErrEditInProgress
	}
	m.StartEdit()
	return m.Clone(), nil
}

// UpdateDraft заменяет поля черновика участника
func (r *Roster) UpdateDraft(id string, name *string, dates []time.Time) (*TeamMember, error) {
	return r.mutate(id, func(m *TeamMember) error {
		return m.SetDraft(name, dates)
	})
}

// UpdateDraftMonth заменяет даты черновика за один месяц
func (r *Roster) UpdateDraftMonth(id string, year int, month time.Month, dates []time.Time) (*TeamMember, error) {
	return r.mutate(id, func(m *TeamMember) error {
		return m.SetDraftMonth(year, month, dates)
	})
}

// CommitEdit сохраняет черновик участника
func (r *Roster) CommitEdit(id string) (*TeamMember, error) {
	return r.mutate(id, (*TeamMember).CommitEdit)
}

// CancelEdit отменяет редактирование участника
func (r *Roster) CancelEdit(id string) (*TeamMember, error) {
	return r.mutate(id, (*TeamMember).CancelEdit)
}

func (r *Roster) mutate(id string, fn func(*TeamMember) error) (*TeamMember, error) {
	m, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

func (r *Roster) find(id string) (*TeamMember, error) {
	for _, m := range r.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrMemberNotFound
}
