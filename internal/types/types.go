package types

import (
	"context"
	"time"

	"github.com/xhad/ragask/internal/models"
)

// Core interfaces
type Asker interface {
	Ask(ctx context.Context, question string, maxWait time.Duration) (*models.QueryResult, error)
	Query(ctx context.Context, question string) (*models.QueryResult, error)
}

type Monitor interface {
	Health(ctx context.Context) (*models.Health, error)
	Stats(ctx context.Context) (*models.Stats, error)
	RecentQueries(ctx context.Context, limit int) ([]models.QueryResult, error)
}

// RAGService is the full surface the CLI drives.
type RAGService interface {
	Asker
	Monitor
}
