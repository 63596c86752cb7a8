package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aidar/leave-tracker/internal/domain"
)

// DefaultLeaseTTL is used when no lease TTL is configured
const DefaultLeaseTTL = 30 * time.Minute

// LeaseClaims represents edit lease JWT claims. RegisteredClaims.ID carries the lease ID.
type LeaseClaims struct {
	MemberID string `json:"member_id"`
	jwt.RegisteredClaims
}

// Lease is a signed grant to edit one team member until ExpiresAt
type Lease struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LeaseService issues and validates edit leases
type LeaseService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(secret string, ttl time.Duration, now func() time.Time) *LeaseService {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	return &LeaseService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

// Issue signs a new lease for a member
func (s *LeaseService) Issue(memberID string) (*Lease, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := &LeaseClaims{
		MemberID: memberID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   memberID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign lease: %w", err)
	}

	return &Lease{
		ID:        claims.ID,
		MemberID:  memberID,
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate checks a lease token and returns its claims
func (s *LeaseService) Validate(tokenString string) (*LeaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LeaseClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrLeaseExpired
		}
		return nil, domain.ErrInvalidLease
	}

	claims, ok := token.Claims.(*LeaseClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.MemberID == "" {
		return nil, domain.ErrInvalidLease
	}

	return claims, nil
}
