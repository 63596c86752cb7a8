package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/leave-tracker/internal/domain"
)

// MemberStore реализует repository.MemberStore для PostgreSQL
type MemberStore struct {
	db *pgxpool.Pool
}

// NewMemberStore создает новый экземпляр MemberStore
func NewMemberStore(db *pgxpool.Pool) *MemberStore {
	return &MemberStore{db: db}
}

// Load получает всех участников с датами отпуска
func (r *MemberStore) Load(ctx context.Context) ([]domain.MemberSnapshot, error) {
	query := `
		SELECT member_id, name, is_editing, edit_name
		FROM team_members
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.MemberSnapshot
	index := make(map[string]int)
	for rows.Next() {
		var s domain.MemberSnapshot
		if err := rows.Scan(&s.ID, &s.Name, &s.IsEditing, &s.EditName); err != nil {
			return nil, err
		}
		if s.IsEditing {
			s.EditLeaveDates = []time.Time{}
		}
		index[s.ID] = len(snapshots)
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Даты загружаем одним запросом и раскладываем по участникам
	datesQuery := `
		SELECT member_id, leave_date, is_draft
		FROM member_leave_dates
		ORDER BY member_id, is_draft, position
	`

	dateRows, err := r.db.Query(ctx, datesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave dates: %w", err)
	}
	defer dateRows.Close()

	for dateRows.Next() {
		var (
			memberID string
			day      time.Time
			isDraft  bool
		)
		if err := dateRows.Scan(&memberID, &day, &isDraft); err != nil {
			return nil, err
		}

		i, ok := index[memberID]
		if !ok {
			continue
		}
		day = domain.DateOf(day)
		if isDraft {
			snapshots[i].EditLeaveDates = append(snapshots[i].EditLeaveDates, day)
		} else {
			snapshots[i].LeaveDates = append(snapshots[i].LeaveDates, day)
		}
	}

	return snapshots, dateRows.Err()
}

// Save заменяет всех участников одной транзакцией
func (r *MemberStore) Save(ctx context.Context, members []domain.MemberSnapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM member_leave_dates`); err != nil {
		return fmt.Errorf("failed to clear leave dates: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM team_members`); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}

	insertMember := `
		INSERT INTO team_members (member_id, name, position, is_editing, edit_name)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	var dateRows [][]any
	for i, m := range members {
		var editName *string
		if m.IsEditing {
			editName = m.EditName
		}
		batch.Queue(insertMember, m.ID, m.Name, i, m.IsEditing, editName)

		for pos, d := range m.LeaveDates {
			dateRows = append(dateRows, []any{m.ID, d, false, pos})
		}
		if m.IsEditing {
			for pos, d := range m.EditLeaveDates {
				dateRows = append(dateRows, []any{m.ID, d, true, pos})
			}
		}
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert members: %w", err)
		}
	}

	if len(dateRows) > 0 {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"member_leave_dates"},
			[]string{"member_id", "leave_date", "is_draft", "position"},
			pgx.CopyFromRows(dateRows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy leave dates: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Close закрывает пул соединений
func (r *MemberStore) Close() error {
	r.db.Close()
	return nil
}
