package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/ety001/cryptotoken-converter/internal/models"
)

// Memory keeps notices in-process. It is used when no MongoDB is configured.
type Memory struct {
	mu      sync.RWMutex
	notices map[string]models.LowFundsNotice
}

func NewMemory() *Memory {
	return &Memory{notices: make(map[string]models.LowFundsNotice)}
}

func noticeKey(coin, wallet string) string {
	return coin + "/" + wallet
}

func (m *Memory) GetNotice(ctx context.Context, coin, wallet string) (*models.LowFundsNotice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notice, ok := m.notices[noticeKey(coin, wallet)]
	if !ok {
		return nil, nil
	}
	return &notice, nil
}

func (m *Memory) SaveNotice(ctx context.Context, notice *models.LowFundsNotice) error {
	m.mu.Lock()
	m.notices[noticeKey(notice.Coin, notice.Wallet)] = *notice
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeleteNotice(ctx context.Context, coin, wallet string) error {
	m.mu.Lock()
	delete(m.notices, noticeKey(coin, wallet))
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListNotices(ctx context.Context) ([]models.LowFundsNotice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.LowFundsNotice, 0, len(m.notices))
	for _, n := range m.notices {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastNotified.After(out[j].LastNotified)
	})
	return out, nil
}

// Close is a no-op so Memory and MongoDB are interchangeable
func (m *Memory) Close() error { return nil }
