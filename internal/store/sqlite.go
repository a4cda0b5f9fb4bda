package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"forex-coach/internal/discipline"
	"forex-coach/internal/errors"
	"forex-coach/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based journal store.
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
	-- Journal of trades with their committed risk plan
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		open_timestamp DATETIME NOT NULL,
		close_timestamp DATETIME,
		status TEXT NOT NULL,
		exit_price REAL,
		exit_reason TEXT,
		notes TEXT,
		risk_percent REAL,
		entry_price REAL,
		stop_loss_price REAL,
		take_profit_price REAL,
		risk_reward_ratio REAL,
		position_size_lots REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
	CREATE INDEX IF NOT EXISTS idx_trades_close ON trades(close_timestamp);

	-- Single-row discipline state (risk ratchet + cooldown)
	CREATE TABLE IF NOT EXISTS discipline_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		risk_percent REAL NOT NULL,
		cooldown_until DATETIME,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveTrade inserts a new trade record.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	notes, err := json.Marshal(trade.Notes)
	if err != nil {
		return errors.NewStoreError("save_trade", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trades (
			id, symbol, direction, open_timestamp, close_timestamp, status,
			exit_price, exit_reason, notes,
			risk_percent, entry_price, stop_loss_price, take_profit_price,
			risk_reward_ratio, position_size_lots
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID, string(trade.Symbol), string(trade.Direction),
		trade.OpenTimestamp, nullableTime(trade.CloseTimestamp), string(trade.Status),
		nullableFloat(trade.ExitPrice), trade.ExitReason, string(notes),
		nullableFloat(trade.RiskPlan.RiskPercent),
		nullableFloat(trade.RiskPlan.EntryPrice),
		nullableFloat(trade.RiskPlan.StopLossPrice),
		nullableFloat(trade.RiskPlan.TakeProfitPrice),
		nullableFloat(trade.RiskPlan.RiskRewardRatio),
		nullableFloat(trade.RiskPlan.PositionSizeLots),
	)
	if err != nil {
		return errors.NewStoreError("save_trade", err)
	}
	return nil
}

// UpdateTrade rewrites an existing trade record.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, trade *models.Trade) error {
	notes, err := json.Marshal(trade.Notes)
	if err != nil {
		return errors.NewStoreError("update_trade", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, direction = ?, open_timestamp = ?, close_timestamp = ?,
			status = ?, exit_price = ?, exit_reason = ?, notes = ?,
			risk_percent = ?, entry_price = ?, stop_loss_price = ?,
			take_profit_price = ?, risk_reward_ratio = ?, position_size_lots = ?
		WHERE id = ?`,
		string(trade.Symbol), string(trade.Direction),
		trade.OpenTimestamp, nullableTime(trade.CloseTimestamp),
		string(trade.Status), nullableFloat(trade.ExitPrice), trade.ExitReason, string(notes),
		nullableFloat(trade.RiskPlan.RiskPercent),
		nullableFloat(trade.RiskPlan.EntryPrice),
		nullableFloat(trade.RiskPlan.StopLossPrice),
		nullableFloat(trade.RiskPlan.TakeProfitPrice),
		nullableFloat(trade.RiskPlan.RiskRewardRatio),
		nullableFloat(trade.RiskPlan.PositionSizeLots),
		trade.ID,
	)
	if err != nil {
		return errors.NewStoreError("update_trade", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrTradeNotFound
	}
	return nil
}

// GetTrade retrieves a trade by ID.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, selectTrades+" WHERE id = ?", id)
	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrTradeNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get_trade", err)
	}
	return trade, nil
}

// ListTrades retrieves trades matching the filter, ordered by open time.
func (s *SQLiteStore) ListTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := selectTrades
	var conds []string
	var args []interface{}

	if filter.Symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, string(filter.Symbol))
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if !filter.ClosedSince.IsZero() {
		conds = append(conds, "close_timestamp >= ?")
		args = append(args, filter.ClosedSince)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY open_timestamp ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("list_trades", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, errors.NewStoreError("list_trades", err)
		}
		trades = append(trades, *trade)
	}
	return trades, rows.Err()
}

// AppendNote adds a note to an existing trade.
func (s *SQLiteStore) AppendNote(ctx context.Context, tradeID, note string) error {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	trade.Notes = append(trade.Notes, note)
	return s.UpdateTrade(ctx, trade)
}

// SaveDisciplineState persists the single discipline state row.
func (s *SQLiteStore) SaveDisciplineState(ctx context.Context, state discipline.State) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO discipline_state (id, risk_percent, cooldown_until, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			risk_percent = excluded.risk_percent,
			cooldown_until = excluded.cooldown_until,
			updated_at = CURRENT_TIMESTAMP`,
		state.RiskPercent, nullableTime(state.CooldownUntil),
	)
	if err != nil {
		return errors.NewStoreError("save_discipline_state", err)
	}
	return nil
}

// LoadDisciplineState loads the persisted discipline state, defaulting and
// clamping when no row exists or the stored value drifted out of range.
func (s *SQLiteStore) LoadDisciplineState(ctx context.Context) (discipline.State, error) {
	var riskPercent float64
	var cooldownUntil sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT risk_percent, cooldown_until FROM discipline_state WHERE id = 1`,
	).Scan(&riskPercent, &cooldownUntil)
	if err == sql.ErrNoRows {
		return discipline.DefaultState(), nil
	}
	if err != nil {
		return discipline.DefaultState(), errors.NewStoreError("load_discipline_state", err)
	}

	state := discipline.State{RiskPercent: riskPercent}
	if cooldownUntil.Valid {
		t := cooldownUntil.Time
		state.CooldownUntil = &t
	}
	return state.Clamp(), nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectTrades = `
	SELECT id, symbol, direction, open_timestamp, close_timestamp, status,
	       exit_price, exit_reason, notes,
	       risk_percent, entry_price, stop_loss_price, take_profit_price,
	       risk_reward_ratio, position_size_lots
	FROM trades`

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var symbol, direction, status string
	var exitReason sql.NullString
	var closeTime sql.NullTime
	var exitPrice sql.NullFloat64
	var riskPercent, entryPrice, stopLoss, takeProfit, ratio, lots sql.NullFloat64
	var notes sql.NullString

	err := row.Scan(
		&t.ID, &symbol, &direction, &t.OpenTimestamp, &closeTime, &status,
		&exitPrice, &exitReason, &notes,
		&riskPercent, &entryPrice, &stopLoss, &takeProfit, &ratio, &lots,
	)
	if err != nil {
		return nil, err
	}

	t.Symbol = models.Symbol(symbol)
	t.Direction = models.Direction(direction)
	t.Status = models.TradeStatus(status)
	if closeTime.Valid {
		ts := closeTime.Time
		t.CloseTimestamp = &ts
	}
	if exitPrice.Valid {
		t.ExitPrice = &exitPrice.Float64
	}
	if exitReason.Valid {
		t.ExitReason = exitReason.String
	}
	if notes.Valid && notes.String != "" {
		if err := json.Unmarshal([]byte(notes.String), &t.Notes); err != nil {
			return nil, fmt.Errorf("decoding notes for trade %s: %w", t.ID, err)
		}
	}
	t.RiskPlan = models.RiskPlan{
		RiskPercent:      floatPtr(riskPercent),
		EntryPrice:       floatPtr(entryPrice),
		StopLossPrice:    floatPtr(stopLoss),
		TakeProfitPrice:  floatPtr(takeProfit),
		RiskRewardRatio:  floatPtr(ratio),
		PositionSizeLots: floatPtr(lots),
	}
	return &t, nil
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
