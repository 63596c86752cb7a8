package handler

import (
	"time"

	"github.com/aidar/leave-tracker/internal/domain"
)

// MemberDTO представляет участника в API, даты в формате YYYY-MM-DD
type MemberDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	LeaveDates     []string `json:"leave_dates"`
	IsEditing      bool     `json:"is_editing"`
	EditName       *string  `json:"edit_name,omitempty"`
	EditLeaveDates []string `json:"edit_leave_dates,omitempty"`
}

func toMemberDTO(m *domain.TeamMember) MemberDTO {
	dto := MemberDTO{
		ID:         m.ID,
		Name:       m.Name,
		LeaveDates: domain.FormatDates(m.LeaveDates),
		IsEditing:  m.IsEditing,
	}
	if m.IsEditing {
		dto.EditName = m.EditName
		dto.EditLeaveDates = domain.FormatDates(m.EditLeaveDates)
	}
	return dto
}

func toMemberDTOs(members []*domain.TeamMember) []MemberDTO {
	out := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberDTO(m))
	}
	return out
}

// MemberResponse оборачивает одного участника
type MemberResponse struct {
	Member MemberDTO `json:"member"`
}

// ListMembersResponse представляет список участников с подписью
type ListMembersResponse struct {
	Members []MemberDTO `json:"members"`
	Count   int         `json:"count"`
	Summary string      `json:"summary"`
}

// AddMemberRequest тело запроса на добавление: либо dates, либо интервал start..end
type AddMemberRequest struct {
	Name  string   `json:"name"`
	Dates []string `json:"dates"`
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
}

// BucketResponse даты участника за месяц
type BucketResponse struct {
	MemberID string `json:"member_id"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Days     []int  `json:"days"`
	Text     string `json:"text"`
	Display  string `json:"display"`
	Empty    bool   `json:"empty"`
}

// BeginEditResponse участник в режиме редактирования и токен на его изменение
type BeginEditResponse struct {
	Member         MemberDTO `json:"member"`
	Lease          string    `json:"lease"`
	LeaseExpiresAt time.Time `json:"lease_expires_at"`
}

// DraftRequest тело запроса на изменение черновика; отсутствующие поля не меняются
type DraftRequest struct {
	Name  *string  `json:"name,omitempty"`
	Dates []string `json:"dates,omitempty"`
}

// DraftMonthRequest даты черновика за один месяц
type DraftMonthRequest struct {
	Dates []string `json:"dates"`
}

// SaveAllResponse ответ на сохранение всех данных
type SaveAllResponse struct {
	Saved   int    `json:"saved"`
	Message string `json:"message"`
}
