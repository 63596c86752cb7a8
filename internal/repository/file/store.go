package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aidar/leave-tracker/internal/domain"
)

const (
	// StorageKey ключ, под которым список участников лежит в документе
	StorageKey = "teamMembers"

	tmpSuffix       = ".tmp"
	backupSuffix    = ".backup"
	filePermissions = 0o644
)

// Store реализует repository.MemberStore поверх JSON-документа "ключ-значение"
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore создает хранилище в файле path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path возвращает путь к файлу документа
func (s *Store) Path() string {
	return s.path
}

// Load читает список участников; отсутствующий файл или ключ дают пустой список
func (s *Store) Load(ctx context.Context) ([]domain.MemberSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}

	raw, ok := doc[StorageKey]
	if !ok {
		return nil, nil
	}
	return DecodeMembers(raw)
}

// Save записывает список участников через временный файл и rename,
// предыдущая версия документа сохраняется рядом с суффиксом .backup
func (s *Store) Save(ctx context.Context, members []domain.MemberSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil && !errors.Is(err, domain.ErrCorruptState) {
		return err
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}

	encoded, err := EncodeMembers(members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}
	doc[StorageKey] = encoded

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	tmp := s.path + tmpSuffix
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := copyFile(s.path, s.path+backupSuffix); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

// Close ничего не делает: файл открывается только на время операции
func (s *Store) Close() error {
	return nil
}

func (s *Store) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptState, s.path, err)
	}
	return doc, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, filePermissions)
}
