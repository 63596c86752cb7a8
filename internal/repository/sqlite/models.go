package sqlite

import "time"

type sqlMember struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Position  int    `gorm:"not null"`
	IsEditing bool   `gorm:"not null;default:false"`
	EditName  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sqlMember) TableName() string {
	return "team_members"
}

type sqlLeaveDate struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	MemberID string `gorm:"not null;index"`
	Day      string `gorm:"not null"` // YYYY-MM-DD
	IsDraft  bool   `gorm:"not null;default:false"`
	Position int    `gorm:"not null"`
}

func (sqlLeaveDate) TableName() string {
	return "member_leave_dates"
}
