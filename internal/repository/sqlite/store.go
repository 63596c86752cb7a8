package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aidar/leave-tracker/internal/domain"
)

// Store реализует repository.MemberStore поверх встроенной SQLite через gorm
type Store struct {
	db *gorm.DB
}

// WithFile возвращает диалект для файла базы в режиме WAL
func WithFile(path string) gorm.Dialector {
	return sqlite.Open(path + "?_pragma=journal_mode(WAL)")
}

// NewStore открывает базу и создает таблицы при необходимости.
// Сообщения gorm (ошибки и медленные запросы) уходят в log на уровне WARN.
func NewStore(d gorm.Dialector, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	l := logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{Logger: l})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&sqlMember{}, &sqlLeaveDate{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Load читает всех участников в порядке добавления
func (s *Store) Load(ctx context.Context) ([]domain.MemberSnapshot, error) {
	db := s.db.WithContext(ctx)

	var members []sqlMember
	if err := db.Order("position").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	var dates []sqlLeaveDate
	if err := db.Order("member_id, is_draft, position").Find(&dates).Error; err != nil {
		return nil, fmt.Errorf("failed to load leave dates: %w", err)
	}

	canonical := make(map[string][]time.Time)
	drafts := make(map[string][]time.Time)
	for _, d := range dates {
		day, err := domain.ParseDate(d.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: member %q: %v", domain.ErrCorruptState, d.MemberID, err)
		}
		if d.IsDraft {
			drafts[d.MemberID] = append(drafts[d.MemberID], day)
		} else {
			canonical[d.MemberID] = append(canonical[d.MemberID], day)
		}
	}

	snapshots := make([]domain.MemberSnapshot, 0, len(members))
	for _, m := range members {
		s := domain.MemberSnapshot{
			ID:         m.ID,
			Name:       m.Name,
			LeaveDates: canonical[m.ID],
			IsEditing:  m.IsEditing,
			EditName:   m.EditName,
		}
		if m.IsEditing {
			s.EditLeaveDates = drafts[m.ID]
			if s.EditLeaveDates == nil {
				s.EditLeaveDates = []time.Time{}
			}
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

// Save заменяет содержимое таблиц одной транзакцией
func (s *Store) Save(ctx context.Context, members []domain.MemberSnapshot) error {
	sqlMembers := make([]sqlMember, 0, len(members))
	var sqlDates []sqlLeaveDate

	for i, m := range members {
		row := sqlMember{ID: m.ID, Name: m.Name, Position: i, IsEditing: m.IsEditing}
		if m.IsEditing {
			row.EditName = m.EditName
		}
		sqlMembers = append(sqlMembers, row)

		for pos, d := range m.LeaveDates {
			sqlDates = append(sqlDates, sqlLeaveDate{MemberID: m.ID, Day: d.Format(domain.DateLayout), Position: pos})
		}
		if m.IsEditing {
			for pos, d := range m.EditLeaveDates {
				sqlDates = append(sqlDates, sqlLeaveDate{MemberID: m.ID, Day: d.Format(domain.DateLayout), IsDraft: true, Position: pos})
			}
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&sqlLeaveDate{}).Error; err != nil {
			return fmt.Errorf("failed to clear leave dates: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&sqlMember{}).Error; err != nil {
			return fmt.Errorf("failed to clear members: %w", err)
		}
		if len(sqlMembers) > 0 {
			if err := tx.Create(&sqlMembers).Error; err != nil {
				return fmt.Errorf("failed to insert members: %w", err)
			}
		}
		if len(sqlDates) > 0 {
			if err := tx.CreateInBatches(&sqlDates, 500).Error; err != nil {
				return fmt.Errorf("failed to insert leave dates: %w", err)
			}
		}
		return nil
	})
}

// Close закрывает соединение с базой
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
