package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aidar/leave-tracker/internal/domain"
	"github.com/aidar/leave-tracker/internal/repository"
)

// AddMemberInput describes a new member: either explicit Dates or an inclusive Start..End interval
type AddMemberInput struct {
	Name  string
	Dates []time.Time
	Start *time.Time
	End   *time.Time
}

// DraftInput carries scratch values for a member in edit mode; nil fields are left as they are
type DraftInput struct {
	Name  *string
	Dates []time.Time
}

// Options configures a LeaveService
type Options struct {
	// Autosave persists the collection after every mutation
	Autosave bool
	Now      func() time.Time
	Logger   *slog.Logger
}

type activeLease struct {
	id        string
	memberID  string
	expiresAt time.Time
}

// LeaveService owns the in-memory member collection and persists it through a MemberStore
type LeaveService struct {
	mu       sync.Mutex
	store    repository.MemberStore
	leases   *LeaseService
	roster   *domain.Roster
	active   *activeLease
	year     int
	autosave bool
	now      func() time.Time
	logger   *slog.Logger
}

// NewLeaveService creates a new LeaveService with an empty collection
func NewLeaveService(store repository.MemberStore, leases *LeaseService, opts Options) *LeaveService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &LeaveService{
		store:    store,
		leases:   leases,
		roster:   domain.NewRoster(nil, domain.NewIDGenerator(opts.Now)),
		year:     opts.Now().Year(),
		autosave: opts.Autosave,
		now:      opts.Now,
		logger:   opts.Logger,
	}
}

// Load replaces the collection with the stored one and fixes the tracker year
func (s *LeaveService) Load(ctx context.Context) error {
	snapshots, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}

	members, err := domain.RestoreMembers(snapshots)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster = domain.NewRoster(members, domain.NewIDGenerator(s.now))
	s.active = nil
	s.year = s.now().Year()

	s.logger.Info("Members loaded", "count", len(members), "year", s.year)
	return nil
}

// Year returns the calendar year the tracker displays
func (s *LeaveService) Year() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year
}

// Now returns the service clock
func (s *LeaveService) Now() time.Time {
	return s.now()
}

// ListMembers returns all members in insertion order
func (s *LeaveService) ListMembers(ctx context.Context) []*domain.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Members()
}

// GetMember retrieves a member by ID
func (s *LeaveService) GetMember(ctx context.Context, id string) (*domain.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Get(id)
}

// AddMember appends a new member; an empty name or empty date set leaves the collection unchanged
func (s *LeaveService) AddMember(ctx context.Context, in AddMemberInput) (*domain.TeamMember, error) {
	dates := in.Dates
	if in.Start != nil || in.End != nil {
		if in.Start == nil || in.End == nil {
			return nil, domain.ErrMemberRejected
		}
		if n := domain.IntervalDays(*in.Start, *in.End); n > domain.MaxIntervalDays {
			return nil, fmt.Errorf("%w: interval of %d days exceeds %d", domain.ErrMemberRejected, n, domain.MaxIntervalDays)
		}
		dates = domain.DaysBetween(*in.Start, *in.End)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var member *domain.TeamMember
	err := s.mutateLocked(ctx, func() error {
		var err error
		member, err = s.roster.Add(in.Name, dates)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Member added", "member_id", member.ID, "dates", len(member.LeaveDates))
	return member, nil
}

// RemoveMember deletes exactly the member with the given ID
func (s *LeaveService) RemoveMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutateLocked(ctx, func() error {
		if err := s.roster.Remove(id); err != nil {
			return err
		}
		if s.active != nil && s.active.memberID == id {
			s.active = nil
		}
		return nil
	})
}

// BeginEdit puts a member into edit mode and issues a lease for it.
// An edit whose lease has expired, or one restored from storage, is cancelled first.
func (s *LeaveService) BeginEdit(ctx context.Context, id string) (*domain.TeamMember, *Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.roster.Get(id); err != nil {
		return nil, nil, err
	}

	var (
		member *domain.TeamMember
		lease  *Lease
	)
	err := s.mutateLocked(ctx, func() error {
		if editing, ok := s.roster.Editing(); ok {
			if s.leaseLiveLocked(editing) {
				return domain.ErrEditInProgress
			}
			if _, err := s.roster.CancelEdit(editing); err != nil {
				return err
			}
			s.active = nil
			s.logger.Info("Stale edit released", "member_id", editing)
		}

		var err error
		if member, err = s.roster.BeginEdit(id); err != nil {
			return err
		}
		if lease, err = s.leases.Issue(id); err != nil {
			return err
		}
		s.active = &activeLease{id: lease.ID, memberID: id, expiresAt: lease.ExpiresAt}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return member, lease, nil
}

// UpdateDraft replaces scratch fields of a member being edited under leaseID
func (s *LeaveService) UpdateDraft(ctx context.Context, id, leaseID string, in DraftInput) (*domain.TeamMember, error) {
	return s.editLeased(ctx, id, leaseID, func() (*domain.TeamMember, error) {
		return s.roster.UpdateDraft(id, in.Name, in.Dates)
	})
}

// UpdateDraftMonth replaces the scratch dates of one month of the tracker year
func (s *LeaveService) UpdateDraftMonth(ctx context.Context, id, leaseID string, month time.Month, dates []time.Time) (*domain.TeamMember, error) {
	return s.editLeased(ctx, id, leaseID, func() (*domain.TeamMember, error) {
		return s.roster.UpdateDraftMonth(id, s.year, month, dates)
	})
}

// SaveEdit commits the draft; an invalid draft keeps the member in edit mode
func (s *LeaveService) SaveEdit(ctx context.Context, id, leaseID string) (*domain.TeamMember, error) {
	return s.editLeased(ctx, id, leaseID, func() (*domain.TeamMember, error) {
		member, err := s.roster.CommitEdit(id)
		if err != nil {
			return nil, err
		}
		s.active = nil
		return member, nil
	})
}

// CancelEdit discards the draft, leaving canonical values unchanged
func (s *LeaveService) CancelEdit(ctx context.Context, id, leaseID string) (*domain.TeamMember, error) {
	return s.editLeased(ctx, id, leaseID, func() (*domain.TeamMember, error) {
		member, err := s.roster.CancelEdit(id)
		if err != nil {
			return nil, err
		}
		s.active = nil
		return member, nil
	})
}

// MonthBucket returns a member's leave days for a month (1..12) of the tracker year
func (s *LeaveService) MonthBucket(ctx context.Context, id string, month int) (domain.Bucket, error) {
	m, err := domain.ParseMonth(month)
	if err != nil {
		return domain.Bucket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	member, err := s.roster.Get(id)
	if err != nil {
		return domain.Bucket{}, err
	}
	return member.MonthBucket(s.year, m), nil
}

// Calendar builds the year table of all members
func (s *LeaveService) Calendar(ctx context.Context) domain.Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.BuildCalendar(s.roster.Members(), s.year)
}

// SaveAll persists the whole collection; an empty collection has nothing to save
func (s *LeaveService) SaveAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.roster.Len()
	if count == 0 {
		return 0, domain.ErrNothingToSave
	}

	if err := s.saveLocked(ctx); err != nil {
		return 0, err
	}

	s.logger.Info("Leave data saved", "count", count, "summary", domain.MemberSummary(count))
	return count, nil
}

// Replace swaps the whole collection for validated snapshots and persists it
func (s *LeaveService) Replace(ctx context.Context, snapshots []domain.MemberSnapshot) (int, error) {
	members, err := domain.RestoreMembers(snapshots)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster, active := s.roster, s.active
	s.roster = domain.NewRoster(members, domain.NewIDGenerator(s.now))
	s.active = nil

	if err := s.saveLocked(ctx); err != nil {
		s.roster, s.active = roster, active
		return 0, err
	}
	return len(members), nil
}

func (s *LeaveService) leaseLiveLocked(memberID string) bool {
	return s.active != nil && s.active.memberID == memberID && s.now().Before(s.active.expiresAt)
}

func (s *LeaveService) checkLeaseLocked(memberID, leaseID string) error {
	if _, err := s.roster.Get(memberID); err != nil {
		return err
	}
	if s.active == nil || s.active.id != leaseID || s.active.memberID != memberID {
		return domain.ErrInvalidLease
	}
	if !s.now().Before(s.active.expiresAt) {
		return domain.ErrLeaseExpired
	}
	return nil
}

// editLeased runs a draft operation for the lease holder and persists it
func (s *LeaveService) editLeased(ctx context.Context, id, leaseID string, fn func() (*domain.TeamMember, error)) (*domain.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLeaseLocked(id, leaseID); err != nil {
		return nil, err
	}

	var member *domain.TeamMember
	err := s.mutateLocked(ctx, func() error {
		var err error
		member, err = fn()
		return err
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// mutateLocked applies fn and autosaves the result. If fn or the save fails,
// the roster and the active lease are restored to their previous state.
func (s *LeaveService) mutateLocked(ctx context.Context, fn func() error) error {
	roster, active := s.roster.Clone(), s.active

	if err := fn(); err != nil {
		s.roster, s.active = roster, active
		return err
	}
	if err := s.persistLocked(ctx); err != nil {
		s.roster, s.active = roster, active
		return err
	}
	return nil
}

func (s *LeaveService) persistLocked(ctx context.Context) error {
	if !s.autosave {
		return nil
	}
	if err := s.saveLocked(ctx); err != nil {
		s.logger.Error("Autosave failed", "error", err)
		return err
	}
	return nil
}

func (s *LeaveService) saveLocked(ctx context.Context) error {
	if err := s.store.Save(ctx, domain.Snapshots(s.roster.Members())); err != nil {
		return fmt.Errorf("failed to save members: %w", err)
	}
	return nil
}
