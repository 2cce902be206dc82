// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"tradelog/internal/models"
)

// Store defines the persistence surface the journal consumes. Every
// operation may fail with a connectivity error; callers treat a failure as
// "no change" and keep serving the previous snapshot.
type Store interface {
	// Trades
	FetchTrades(ctx context.Context, userID string) ([]models.Trade, error)
	GetTrade(ctx context.Context, id string) (*models.Trade, error)
	AddTrade(ctx context.Context, trade *models.Trade) (string, error)
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	DeleteTrade(ctx context.Context, id string) error

	// User settings
	FetchCapital(ctx context.Context, userID string) (float64, error)
	SetCapital(ctx context.Context, userID string, capital float64) error

	// Lifecycle
	Close() error
}
