package repository

import (
	"database/sql"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// AdjustedPrice is one cached daily bar for one symbol. AdjClose is the
// dividend/split-adjusted close used for all strategy math; the raw OHLC
// fields back the stop-loss fill policy for the leveraged instrument.
type AdjustedPrice struct {
	Symbol    string
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	AdjClose  float64
	CreatedAt time.Time
}

type AdjustedPriceRepository interface {
	Add([]AdjustedPrice) error
	List(symbol string, start, end time.Time) ([]AdjustedPrice, error)
	// HasCoverage reports whether a previously recorded fetch window fully
	// contains [start, end]. List alone cannot tell a partial cache from
	// full coverage.
	HasCoverage(symbol string, start, end time.Time) (bool, error)
	// MarkCovered records that [start, end] has been fetched for symbol.
	MarkCovered(symbol string, start, end time.Time) error
}

func NewAdjustedPriceRepository(db *sql.DB) AdjustedPriceRepository {
	return &adjustedPriceRepositoryHandler{Db: db}
}

type adjustedPriceRepositoryHandler struct {
	Db *sql.DB
}

func (h *adjustedPriceRepositoryHandler) Add(adjPrices []AdjustedPrice) error {
	if len(adjPrices) == 0 {
		return nil
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO adjusted_price (symbol, date, open, high, low, close, adj_close, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			adj_close = excluded.adj_close
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range adjPrices {
		_, err = stmt.Exec(
			p.Symbol,
			p.Date.Format(dateLayout),
			p.Open,
			p.High,
			p.Low,
			p.Close,
			p.AdjClose,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to add adjusted price %s %v: %w", p.Symbol, p.Date, err)
		}
	}

	return tx.Commit()
}

func (h *adjustedPriceRepositoryHandler) List(symbol string, start, end time.Time) ([]AdjustedPrice, error) {
	rows, err := h.Db.Query(`
		SELECT symbol, date, open, high, low, close, adj_close
		FROM adjusted_price
		WHERE symbol = ? AND date BETWEEN ? AND ?
		ORDER BY date ASC
	`, symbol, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	out := []AdjustedPrice{}
	for rows.Next() {
		var (
			p       AdjustedPrice
			dateStr string
		)
		if err := rows.Scan(&p.Symbol, &dateStr, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjClose); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		p.Date, err = time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cached date %q: %w", dateStr, err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (h *adjustedPriceRepositoryHandler) HasCoverage(symbol string, start, end time.Time) (bool, error) {
	var n int
	err := h.Db.QueryRow(`
		SELECT COUNT(*)
		FROM fetch_window
		WHERE symbol = ? AND start_date <= ? AND end_date >= ?
	`, symbol, start.Format(dateLayout), end.Format(dateLayout)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check coverage for %s: %w", symbol, err)
	}
	return n > 0, nil
}

func (h *adjustedPriceRepositoryHandler) MarkCovered(symbol string, start, end time.Time) error {
	_, err := h.Db.Exec(`
		INSERT INTO fetch_window (symbol, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (symbol, start_date, end_date) DO NOTHING
	`, symbol, start.Format(dateLayout), end.Format(dateLayout), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record fetch window for %s: %w", symbol, err)
	}
	return nil
}
