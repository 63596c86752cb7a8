package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/leave-tracker/internal/domain"
	"github.com/aidar/leave-tracker/internal/middleware"
	"github.com/aidar/leave-tracker/internal/service"
)

// EditHandler обрабатывает эндпоинты режима редактирования
type EditHandler struct {
	leaveService *service.LeaveService
}

// NewEditHandler создает новый EditHandler
func NewEditHandler(leaveService *service.LeaveService) *EditHandler {
	return &EditHandler{
		leaveService: leaveService,
	}
}

// BeginEdit обрабатывает POST /members/{id}/edit
func (h *EditHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	member, lease, err := h.leaveService.BeginEdit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, BeginEditResponse{
		Member:         toMemberDTO(member),
		Lease:          lease.Token,
		LeaseExpiresAt: lease.ExpiresAt,
	})
}

// UpdateDraft обрабатывает PUT /members/{id}/draft
func (h *EditHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, leaseID, ok := leaseFor(w, r)
	if !ok {
		return
	}

	var req DraftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := service.DraftInput{Name: req.Name}
	// Отсутствующий список дат означает "не менять", пустой список очищает черновик
	if req.Dates != nil {
		dates, err := domain.ParseDates(req.Dates)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		input.Dates = dates
	}

	member, err := h.leaveService.UpdateDraft(r.Context(), id, leaseID, input)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MemberResponse{Member: toMemberDTO(member)})
}

// UpdateDraftMonth обрабатывает PUT /members/{id}/draft/months/{month}
func (h *EditHandler) UpdateDraftMonth(w http.ResponseWriter, r *http.Request) {
	id, leaseID, ok := leaseFor(w, r)
	if !ok {
		return
	}

	n, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		HandleError(w, r, domain.ErrInvalidMonth)
		return
	}
	month, err := domain.ParseMonth(n)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	var req DraftMonthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dates, err := domain.ParseDates(req.Dates)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	member, err := h.leaveService.UpdateDraftMonth(r.Context(), id, leaseID, month, dates)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MemberResponse{Member: toMemberDTO(member)})
}

// SaveEdit обрабатывает POST /members/{id}/save
func (h *EditHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	id, leaseID, ok := leaseFor(w, r)
	if !ok {
		return
	}

	member, err := h.leaveService.SaveEdit(r.Context(), id, leaseID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MemberResponse{Member: toMemberDTO(member)})
}

// CancelEdit обрабатывает POST /members/{id}/cancel
func (h *EditHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	id, leaseID, ok := leaseFor(w, r)
	if !ok {
		return
	}

	member, err := h.leaveService.CancelEdit(r.Context(), id, leaseID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MemberResponse{Member: toMemberDTO(member)})
}

// leaseFor сверяет токен из контекста с участником из URL
func leaseFor(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	id := chi.URLParam(r, "id")
	claims := middleware.GetLeaseClaimsFromContext(r.Context())
	if claims == nil || claims.MemberID != id {
		HandleError(w, r, domain.ErrInvalidLease)
		return "", "", false
	}
	return id, claims.ID, true
}
