package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/leave-tracker/internal/service"
)

func TestLeaseMiddleware(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	current := now
	leases := service.NewLeaseService("secret", 5*time.Minute, func() time.Time { return current })

	lease, err := leases.Issue("member-1")
	require.NoError(t, err)

	var seen *service.LeaseClaims
	handler := LeaseMiddleware(leases)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetLeaseClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(header, value string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/members/member-1/save", nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing lease", func(t *testing.T) {
		rec := serve("", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_LEASE")
	})

	t.Run("garbage lease", func(t *testing.T) {
		rec := serve(LeaseHeader, "garbage")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid lease header", func(t *testing.T) {
		rec := serve(LeaseHeader, lease.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "member-1", seen.MemberID)
		assert.Equal(t, lease.ID, seen.ID)
	})

	t.Run("valid authorization header", func(t *testing.T) {
		rec := serve("Authorization", "Lease "+lease.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired lease", func(t *testing.T) {
		current = now.Add(10 * time.Minute)
		defer func() { current = now }()

		rec := serve(LeaseHeader, lease.Token)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "LEASE_EXPIRED")
	})
}

func TestGetLeaseClaimsFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetLeaseClaimsFromContext(req.Context()))
}
