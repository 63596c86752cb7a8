package repository

import (
	"context"

	"github.com/aidar/leave-tracker/internal/domain"
)

// MemberStore определяет загрузку и сохранение всего списка участников целиком
type MemberStore interface {
	// Load читает сохраненный список участников; пустое хранилище дает пустой список
	Load(ctx context.Context) ([]domain.MemberSnapshot, error)

	// Save полностью заменяет сохраненный список участников
	Save(ctx context.Context, members []domain.MemberSnapshot) error

	// Close освобождает ресурсы хранилища
	Close() error
}
