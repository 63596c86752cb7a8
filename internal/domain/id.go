package domain

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator выдает идентификаторы из текущего времени в миллисекундах.
// Значения строго возрастают, поэтому два добавления в одну миллисекунду получают разные ID.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDGenerator создает генератор поверх часов now
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next возвращает следующий идентификатор
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
