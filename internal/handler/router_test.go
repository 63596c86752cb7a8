package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/leave-tracker/internal/domain"
	"github.com/aidar/leave-tracker/internal/middleware"
	"github.com/aidar/leave-tracker/internal/service"
)

type memoryStore struct {
	members []domain.MemberSnapshot
	saves   int
}

func (m *memoryStore) Load(ctx context.Context) ([]domain.MemberSnapshot, error) {
	return m.members, nil
}

func (m *memoryStore) Save(ctx context.Context, members []domain.MemberSnapshot) error {
	m.members = members
	m.saves++
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}

type testServer struct {
	handler http.Handler
	store   *memoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	now := func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &memoryStore{}
	leases := service.NewLeaseService("handler-test-secret", 30*time.Minute, now)
	svc := service.NewLeaveService(store, leases, service.Options{Now: now, Logger: logger})
	require.NoError(t, svc.Load(context.Background()))

	return &testServer{
		handler: NewRouter(svc, leases, logger),
		store:   store,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, lease string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if lease != "" {
		req.Header.Set(middleware.LeaseHeader, lease)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func (s *testServer) addMember(t *testing.T, req AddMemberRequest) MemberDTO {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/members", req, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[MemberResponse](t, rec).Member
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMembers_AddListDelete(t *testing.T) {
	srv := newTestServer(t)

	alice := srv.addMember(t, AddMemberRequest{Name: "Alice", Dates: []string{"2025-01-15", "2025-01-03"}})
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, []string{"2025-01-15", "2025-01-03"}, alice.LeaveDates)

	bob := srv.addMember(t, AddMemberRequest{Name: "Bob", Start: "2025-02-27", End: "2025-03-02"})
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, bob.LeaveDates)

	rec := srv.do(t, http.MethodGet, "/members", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ListMembersResponse](t, rec)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "2 team members", list.Summary)

	rec = srv.do(t, http.MethodDelete, "/members/"+alice.ID, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/members/"+alice.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")

	rec = srv.do(t, http.MethodGet, "/members/"+bob.ID, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMembers_AddRejected(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{name: "blank name", body: AddMemberRequest{Name: "  ", Dates: []string{"2025-01-01"}}, status: http.StatusUnprocessableEntity, code: "MEMBER_REJECTED"},
		{name: "no dates", body: AddMemberRequest{Name: "Bob"}, status: http.StatusUnprocessableEntity, code: "MEMBER_REJECTED"},
		{name: "reversed interval", body: AddMemberRequest{Name: "Bob", Start: "2025-02-05", End: "2025-02-01"}, status: http.StatusUnprocessableEntity, code: "MEMBER_REJECTED"},
		{name: "interval too long", body: AddMemberRequest{Name: "Bob", Start: "0001-01-01", End: "9999-12-31"}, status: http.StatusUnprocessableEntity, code: "MEMBER_REJECTED"},
		{name: "half interval", body: AddMemberRequest{Name: "Bob", Start: "2025-02-05"}, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "bad date", body: AddMemberRequest{Name: "Bob", Dates: []string{"05.02.2025"}}, status: http.StatusBadRequest, code: "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/members", tt.body, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}

	rec := srv.do(t, http.MethodGet, "/members", nil, "")
	assert.Equal(t, 0, decode[ListMembersResponse](t, rec).Count)
}

func TestMembers_GetMonth(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.addMember(t, AddMemberRequest{Name: "Alice", Dates: []string{"2025-01-03", "2025-01-15", "2025-03-02"}})

	rec := srv.do(t, http.MethodGet, "/members/"+alice.ID+"/months/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	jan := decode[BucketResponse](t, rec)
	assert.Equal(t, "3, 15", jan.Text)
	assert.Equal(t, 2025, jan.Year)

	rec = srv.do(t, http.MethodGet, "/members/"+alice.ID+"/months/2", nil, "")
	feb := decode[BucketResponse](t, rec)
	assert.True(t, feb.Empty)
	assert.Equal(t, "-", feb.Display)

	rec = srv.do(t, http.MethodGet, "/members/"+alice.ID+"/months/13", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/members/"+alice.ID+"/months/jan", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEdit_Workflow(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.addMember(t, AddMemberRequest{Name: "Alice", Dates: []string{"2025-01-03"}})
	bob := srv.addMember(t, AddMemberRequest{Name: "Bob", Dates: []string{"2025-01-04"}})

	rec := srv.do(t, http.MethodPost, "/members/"+alice.ID+"/edit", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	begin := decode[BeginEditResponse](t, rec)
	require.NotEmpty(t, begin.Lease)
	assert.True(t, begin.Member.IsEditing)
	require.NotNil(t, begin.Member.EditName)
	assert.Equal(t, "Alice", *begin.Member.EditName)

	t.Run("second edit is refused", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/members/"+bob.ID+"/edit", nil, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "EDIT_IN_PROGRESS")
	})

	t.Run("draft requires lease", func(t *testing.T) {
		rec := srv.do(t, http.MethodPut, "/members/"+alice.ID+"/draft", DraftRequest{}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("lease is bound to member", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/members/"+bob.ID+"/save", nil, begin.Lease)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_LEASE")
	})

	t.Run("update draft and month", func(t *testing.T) {
		name := "Alicia"
		rec := srv.do(t, http.MethodPut, "/members/"+alice.ID+"/draft", DraftRequest{Name: &name}, begin.Lease)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		member := decode[MemberResponse](t, rec).Member
		assert.Equal(t, "Alicia", *member.EditName)
		assert.Equal(t, []string{"2025-01-03"}, member.EditLeaveDates, "absent dates keep the draft")

		rec = srv.do(t, http.MethodPut, "/members/"+alice.ID+"/draft/months/2", DraftMonthRequest{Dates: []string{"2025-02-10"}}, begin.Lease)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		member = decode[MemberResponse](t, rec).Member
		assert.Equal(t, []string{"2025-01-03", "2025-02-10"}, member.EditLeaveDates)
		assert.Equal(t, "Alice", member.Name)
	})

	t.Run("save commits draft", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/members/"+alice.ID+"/save", nil, begin.Lease)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		member := decode[MemberResponse](t, rec).Member
		assert.Equal(t, "Alicia", member.Name)
		assert.Equal(t, []string{"2025-01-03", "2025-02-10"}, member.LeaveDates)
		assert.False(t, member.IsEditing)
		assert.Nil(t, member.EditName)
	})

	t.Run("used lease no longer works", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/members/"+alice.ID+"/cancel", nil, begin.Lease)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestEdit_InvalidDraftAndCancel(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.addMember(t, AddMemberRequest{Name: "Alice", Dates: []string{"2025-01-03"}})

	rec := srv.do(t, http.MethodPost, "/members/"+alice.ID+"/edit", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	lease := decode[BeginEditResponse](t, rec).Lease

	// Пустой список дат очищает черновик
	rec = srv.do(t, http.MethodPut, "/members/"+alice.ID+"/draft", map[string]interface{}{"dates": []string{}}, lease)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/members/"+alice.ID+"/save", nil, lease)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_DRAFT")

	rec = srv.do(t, http.MethodPost, "/members/"+alice.ID+"/cancel", nil, lease)
	require.Equal(t, http.StatusOK, rec.Code)
	member := decode[MemberResponse](t, rec).Member
	assert.Equal(t, []string{"2025-01-03"}, member.LeaveDates)
	assert.False(t, member.IsEditing)
}

func TestCalendar_And_SaveAll(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/save", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOTHING_TO_SAVE")

	srv.addMember(t, AddMemberRequest{Name: "Alice", Dates: []string{"2025-01-03", "2025-12-24"}})

	rec = srv.do(t, http.MethodGet, "/calendar", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cal := decode[domain.Calendar](t, rec)
	assert.Equal(t, 2025, cal.Year)
	assert.Equal(t, "1 team member", cal.Summary)
	require.Len(t, cal.Rows, 1)
	assert.Equal(t, "3", cal.Rows[0].Cells[0].Text)
	assert.Equal(t, "24", cal.Rows[0].Cells[11].Text)

	assert.Equal(t, 0, srv.store.saves)
	rec = srv.do(t, http.MethodPost, "/save", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode[SaveAllResponse](t, rec)
	assert.Equal(t, 1, saved.Saved)
	assert.Equal(t, "Leave data saved successfully!", saved.Message)
	assert.Equal(t, 1, srv.store.saves)
}

func TestCalendar_Exports(t *testing.T) {
	srv := newTestServer(t)
	srv.addMember(t, AddMemberRequest{Name: "Alice", Dates: []string{"2025-01-03"}})

	rec := srv.do(t, http.MethodGet, "/calendar/export.ics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "leave_dates_2025.ics")
	assert.Contains(t, rec.Body.String(), "DTSTART;VALUE=DATE:20250103")
	assert.Contains(t, rec.Body.String(), "DTSTAMP:20250310T090000Z")

	rec = srv.do(t, http.MethodGet, "/calendar/export.csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Body.String(), "Alice,2025-01-03")
}

func TestHandleError_WrappedErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	HandleError(rec, req, &wrapped{domain.ErrCorruptState})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "CORRUPT_STATE")

	rec = httptest.NewRecorder()
	HandleError(rec, req, io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
