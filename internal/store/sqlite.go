package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tradelog/internal/errors"
	"tradelog/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trades table: one row per journal record
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		entry_price REAL NOT NULL,
		target_price REAL NOT NULL DEFAULT 0,
		stop_loss REAL NOT NULL DEFAULT 0,
		quantity INTEGER,
		timeframe TEXT,
		notes TEXT,
		tags TEXT,
		image_paths TEXT,
		date DATETIME NOT NULL,
		exit_price REAL,
		exit_date DATETIME,
		charges REAL,
		interest_per_day REAL,
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- User settings (capital is the ROI denominator)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT,
		fullname TEXT,
		capital REAL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);
	CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const tradeColumns = `id, user_id, symbol, type, category, entry_price, target_price, stop_loss,
	quantity, timeframe, notes, tags, image_paths, date, exit_price, exit_date, charges,
	interest_per_day, status`

// FetchTrades returns all trades for a user, newest first.
func (s *SQLiteStore) FetchTrades(ctx context.Context, userID string) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM trades WHERE user_id = ? ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, errors.NewPersistenceError("fetch trades", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, errors.NewPersistenceError("scan trade", err)
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError("iterate trades", err)
	}
	return trades, nil
}

// GetTrade returns a single trade by ID, or ErrTradeNotFound.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+` FROM trades WHERE id = ?
	`, id)
	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrTradeNotFound
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get trade", err)
	}
	return trade, nil
}

// AddTrade inserts a trade and returns the assigned ID.
func (s *SQLiteStore) AddTrade(ctx context.Context, trade *models.Trade) (string, error) {
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	if trade.UserID == "" {
		trade.UserID = models.DefaultUserID
	}

	tags, _ := json.Marshal(trade.Tags)
	imagePaths, _ := json.Marshal(trade.ImagePaths)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.UserID, trade.Symbol, trade.Type, trade.Category,
		trade.EntryPrice, trade.TargetPrice, trade.StopLoss,
		nullableInt(trade.Quantity), nullableString(trade.Timeframe), trade.Notes,
		string(tags), string(imagePaths), trade.Date,
		nullableFloat(trade.ExitPrice), nullableTime(trade.ExitDate),
		nullableFloat(trade.Charges), nullableFloat(trade.InterestPerDay), trade.Status)
	if err != nil {
		return "", errors.NewPersistenceError("add trade", err)
	}
	return trade.ID, nil
}

// UpdateTrade replaces the stored record for the trade's ID.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, trade *models.Trade) error {
	tags, _ := json.Marshal(trade.Tags)
	imagePaths, _ := json.Marshal(trade.ImagePaths)

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, type = ?, category = ?, entry_price = ?, target_price = ?,
			stop_loss = ?, quantity = ?, timeframe = ?, notes = ?, tags = ?,
			image_paths = ?, date = ?, exit_price = ?, exit_date = ?, charges = ?,
			interest_per_day = ?, status = ?
		WHERE id = ?
	`, trade.Symbol, trade.Type, trade.Category, trade.EntryPrice, trade.TargetPrice,
		trade.StopLoss, nullableInt(trade.Quantity), nullableString(trade.Timeframe),
		trade.Notes, string(tags), string(imagePaths), trade.Date,
		nullableFloat(trade.ExitPrice), nullableTime(trade.ExitDate),
		nullableFloat(trade.Charges), nullableFloat(trade.InterestPerDay),
		trade.Status, trade.ID)
	if err != nil {
		return errors.NewPersistenceError("update trade", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrTradeNotFound
	}
	return nil
}

// DeleteTrade removes a trade by ID.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return errors.NewPersistenceError("delete trade", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrTradeNotFound
	}
	return nil
}

// FetchCapital returns the user's capital, or 0 when none is stored.
func (s *SQLiteStore) FetchCapital(ctx context.Context, userID string) (float64, error) {
	var capital sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT capital FROM users WHERE id = ?`, userID).Scan(&capital)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.NewPersistenceError("fetch capital", err)
	}
	if !capital.Valid {
		return 0, nil
	}
	return capital.Float64, nil
}

// SetCapital stores the user's capital, creating the user row if needed.
func (s *SQLiteStore) SetCapital(ctx context.Context, userID string, capital float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, capital, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET capital = excluded.capital, updated_at = CURRENT_TIMESTAMP
	`, userID, capital)
	if err != nil {
		return errors.NewPersistenceError("set capital", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row scanner) (*models.Trade, error) {
	var t models.Trade
	var quantity sql.NullInt64
	var timeframe, notes, tags, imagePaths sql.NullString
	var exitPrice, charges, interestPerDay sql.NullFloat64
	var exitDate sql.NullTime

	err := row.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Type, &t.Category,
		&t.EntryPrice, &t.TargetPrice, &t.StopLoss,
		&quantity, &timeframe, &notes, &tags, &imagePaths, &t.Date,
		&exitPrice, &exitDate, &charges, &interestPerDay, &t.Status)
	if err != nil {
		return nil, err
	}

	if quantity.Valid {
		q := int(quantity.Int64)
		t.Quantity = &q
	}
	t.Timeframe = timeframe.String
	t.Notes = notes.String
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &t.Tags); err != nil {
			t.Tags = nil
		}
	}
	if imagePaths.Valid && imagePaths.String != "" {
		if err := json.Unmarshal([]byte(imagePaths.String), &t.ImagePaths); err != nil {
			t.ImagePaths = nil
		}
	}
	if exitPrice.Valid {
		v := exitPrice.Float64
		t.ExitPrice = &v
	}
	if exitDate.Valid {
		v := exitDate.Time
		t.ExitDate = &v
	}
	if charges.Valid {
		v := charges.Float64
		t.Charges = &v
	}
	if interestPerDay.Valid {
		v := interestPerDay.Float64
		t.InterestPerDay = &v
	}
	return &t, nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
