package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/leave-tracker/internal/domain"
	"github.com/aidar/leave-tracker/internal/service"
)

// MemberHandler обрабатывает эндпоинты участников
type MemberHandler struct {
	leaveService *service.LeaveService
}

// NewMemberHandler создает новый MemberHandler
func NewMemberHandler(leaveService *service.LeaveService) *MemberHandler {
	return &MemberHandler{
		leaveService: leaveService,
	}
}

// ListMembers обрабатывает GET /members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members := h.leaveService.ListMembers(r.Context())

	RespondWithJSON(w, r, http.StatusOK, ListMembersResponse{
		Members: toMemberDTOs(members),
		Count:   len(members),
		Summary: domain.MemberSummary(len(members)),
	})
}

// AddMember обрабатывает POST /members
func (h *MemberHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := service.AddMemberInput{Name: req.Name}

	// Интервал имеет приоритет над явным списком дат
	if req.Start != "" || req.End != "" {
		start, end, err := parseInterval(req.Start, req.End)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		input.Start, input.End = start, end
	} else {
		dates, err := domain.ParseDates(req.Dates)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		input.Dates = dates
	}

	member, err := h.leaveService.AddMember(r.Context(), input)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, MemberResponse{Member: toMemberDTO(member)})
}

// GetMember обрабатывает GET /members/{id}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.leaveService.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MemberResponse{Member: toMemberDTO(member)})
}

// DeleteMember обрабатывает DELETE /members/{id}
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.RemoveMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondNoContent(w, r)
}

// GetMonth обрабатывает GET /members/{id}/months/{month}
func (h *MemberHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		HandleError(w, r, domain.ErrInvalidMonth)
		return
	}

	bucket, err := h.leaveService.MonthBucket(r.Context(), id, month)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, BucketResponse{
		MemberID: id,
		Year:     h.leaveService.Year(),
		Month:    int(bucket.Month),
		Days:     bucket.Days,
		Text:     bucket.Text,
		Display:  bucket.Display(),
		Empty:    bucket.Empty(),
	})
}

var errMissingBound = errors.New("both start and end are required for an interval")

// parseInterval разбирает обе границы интервала; одна граница без другой не допускается
func parseInterval(start, end string) (*time.Time, *time.Time, error) {
	if start == "" || end == "" {
		return nil, nil, errMissingBound
	}
	from, err := domain.ParseDate(start)
	if err != nil {
		return nil, nil, err
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		return nil, nil, err
	}
	return &from, &to, nil
}
