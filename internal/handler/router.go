package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aidar/leave-tracker/internal/middleware"
	"github.com/aidar/leave-tracker/internal/service"
)

// NewRouter собирает роутер со всеми эндпоинтами трекера
func NewRouter(leaveService *service.LeaveService, leaseService *service.LeaseService, logger *slog.Logger) http.Handler {
	memberHandler := NewMemberHandler(leaveService)
	editHandler := NewEditHandler(leaveService)
	calendarHandler := NewCalendarHandler(leaveService, logger)

	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Route("/members", func(r chi.Router) {
		r.Get("/", memberHandler.ListMembers)
		r.Post("/", memberHandler.AddMember)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", memberHandler.GetMember)
			r.Delete("/", memberHandler.DeleteMember)
			r.Get("/months/{month}", memberHandler.GetMonth)
			r.Post("/edit", editHandler.BeginEdit)

			// Изменение черновика требует токен редактирования
			r.Group(func(r chi.Router) {
				r.Use(middleware.LeaseMiddleware(leaseService))

				r.Put("/draft", editHandler.UpdateDraft)
				r.Put("/draft/months/{month}", editHandler.UpdateDraftMonth)
				r.Post("/save", editHandler.SaveEdit)
				r.Post("/cancel", editHandler.CancelEdit)
			})
		})
	})

	r.Get("/calendar", calendarHandler.GetCalendar)
	r.Get("/calendar/export.ics", calendarHandler.ExportICS)
	r.Get("/calendar/export.csv", calendarHandler.ExportCSV)
	r.Post("/save", calendarHandler.SaveAll)

	return r
}
