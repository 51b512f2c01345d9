// Package symbols tracks the stock symbols the service refreshes news for.
package symbols

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
)

// Repository handles tracked-symbol persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new symbol repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "symbols").Logger(),
	}
}

// Seed inserts symbols that are not yet tracked. Existing rows are left
// untouched, so the seed file can be re-applied on every start.
func (r *Repository) Seed(list []domain.Symbol) error {
	now := time.Now().Unix()
	created := 0

	for _, s := range list {
		result, err := r.db.Exec(`
			INSERT INTO symbols (symbol, name, sector, active, created_at)
			VALUES (?, ?, ?, 1, ?)
			ON CONFLICT(symbol) DO NOTHING
		`, s.Symbol, s.Name, s.Sector, now)
		if err != nil {
			return fmt.Errorf("failed to seed symbol %s: %w", s.Symbol, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read seed result: %w", err)
		}
		created += int(rows)
	}

	if created > 0 {
		r.log.Info().Int("created", created).Msg("Seeded tracked symbols")
	}

	return nil
}

// GetActive returns all active tracked symbols, ordered by symbol.
func (r *Repository) GetActive() ([]domain.Symbol, error) {
	rows, err := r.db.Query(`
		SELECT symbol, name, sector
		FROM symbols
		WHERE active = 1
		ORDER BY symbol ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var result []domain.Symbol
	for rows.Next() {
		var s domain.Symbol
		if err := rows.Scan(&s.Symbol, &s.Name, &s.Sector); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		s.Active = true
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate symbols: %w", err)
	}

	return result, nil
}
