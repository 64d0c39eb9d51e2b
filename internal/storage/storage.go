package storage

import (
	"context"

	"github.com/ety001/cryptotoken-converter/internal/models"
)

// NoticeStore persists low-funds notices
type NoticeStore interface {
	GetNotice(ctx context.Context, coin, wallet string) (*models.LowFundsNotice, error)
	SaveNotice(ctx context.Context, notice *models.LowFundsNotice) error
	DeleteNotice(ctx context.Context, coin, wallet string) error
	ListNotices(ctx context.Context) ([]models.LowFundsNotice, error)
	Close() error
}

var (
	_ NoticeStore = (*MongoDB)(nil)
	_ NoticeStore = (*Memory)(nil)
)
