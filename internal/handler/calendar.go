package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aidar/leave-tracker/internal/export"
	"github.com/aidar/leave-tracker/internal/service"
)

// CalendarHandler обрабатывает таблицу отпусков, сохранение и выгрузки
type CalendarHandler struct {
	leaveService *service.LeaveService
	logger       *slog.Logger
}

// NewCalendarHandler создает новый CalendarHandler
func NewCalendarHandler(leaveService *service.LeaveService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		leaveService: leaveService,
		logger:       logger,
	}
}

// GetCalendar обрабатывает GET /calendar
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, h.leaveService.Calendar(r.Context()))
}

// SaveAll обрабатывает POST /save
func (h *CalendarHandler) SaveAll(w http.ResponseWriter, r *http.Request) {
	saved, err := h.leaveService.SaveAll(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, SaveAllResponse{
		Saved:   saved,
		Message: "Leave data saved successfully!",
	})
}

// ExportICS обрабатывает GET /calendar/export.ics
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	year := h.leaveService.Year()
	members := h.leaveService.ListMembers(r.Context())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=leave_dates_%d.ics", year))

	if err := export.WriteICS(w, members, year, h.leaveService.Now()); err != nil {
		h.logger.Error("Failed to write ICS export", "error", err)
	}
}

// ExportCSV обрабатывает GET /calendar/export.csv
func (h *CalendarHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	year := h.leaveService.Year()
	members := h.leaveService.ListMembers(r.Context())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=leave_dates_%d.csv", year))

	if err := export.WriteCSV(w, members, year); err != nil {
		h.logger.Error("Failed to write CSV export", "error", err)
	}
}
