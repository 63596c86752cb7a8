package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aidar/leave-tracker/internal/domain"
	"github.com/aidar/leave-tracker/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// LeaseClaimsKey ключ контекста для claims токена редактирования
	LeaseClaimsKey ContextKey = "lease_claims"

	// LeaseHeader заголовок, в котором клиент передает токен редактирования
	LeaseHeader = "X-Edit-Lease"
)

// LeaseMiddleware создает middleware для проверки токенов редактирования
func LeaseMiddleware(leaseService *service.LeaseService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Токен принимаем из X-Edit-Lease либо из "Authorization: Lease <token>"
			token := strings.TrimSpace(r.Header.Get(LeaseHeader))
			if token == "" {
				parts := strings.Split(r.Header.Get("Authorization"), " ")
				if len(parts) == 2 && parts[0] == "Lease" {
					token = parts[1]
				}
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, `{"error":{"code":"INVALID_LEASE","message":"missing edit lease"}}`)
				return
			}

			// Валидируем токен
			claims, err := leaseService.Validate(token)
			if err != nil {
				if errors.Is(err, domain.ErrLeaseExpired) {
					writeError(w, http.StatusConflict, `{"error":{"code":"LEASE_EXPIRED","message":"edit lease expired"}}`)
					return
				}
				writeError(w, http.StatusForbidden, `{"error":{"code":"INVALID_LEASE","message":"invalid edit lease"}}`)
				return
			}

			// Добавляем claims в контекст
			ctx := context.WithValue(r.Context(), LeaseClaimsKey, claims)

			// Вызываем следующий обработчик
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLeaseClaimsFromContext извлекает claims токена редактирования из контекста
func GetLeaseClaimsFromContext(ctx context.Context) *service.LeaseClaims {
	claims, ok := ctx.Value(LeaseClaimsKey).(*service.LeaseClaims)
	if !ok {
		return nil
	}
	return claims
}

func writeError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
