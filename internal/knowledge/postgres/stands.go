// Package postgres implements the knowledge services on top of PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/models"
)

const standColumns = `id, name, terminal, pier, size_category, max_wingspan_m,
       has_jet_bridge, is_active, is_available, latitude, longitude`

type StandStore struct {
	db *sql.DB
}

func NewStandStore(db *sql.DB) *StandStore {
	return &StandStore{db: db}
}

func (s *StandStore) GetStandByName(ctx context.Context, name string) (*models.Stand, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+standColumns+` FROM stands WHERE UPPER(name) = UPPER($1) LIMIT 1`,
		strings.TrimSpace(name))
	return scanStand(row)
}

func (s *StandStore) GetStandByID(ctx context.Context, id int64) (*models.Stand, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+standColumns+` FROM stands WHERE id = $1`, id)
	return scanStand(row)
}

func (s *StandStore) ListStands(ctx context.Context, filter models.StandFilter) ([]models.Stand, error) {
	where, args := filterClause(filter, nil, nil)
	query := `SELECT ` + standColumns + ` FROM stands` + where + ` ORDER BY name`
	query, args = withLimit(query, args, filter.Limit)
	return s.query(ctx, query, args...)
}

// CompatibleStands relies on ICAO size letters sorting in capacity order.
func (s *StandStore) CompatibleStands(ctx context.Context, sizeCategory string, filter models.StandFilter) ([]models.Stand, error) {
	where, args := filterClause(filter, []string{"size_category >= $1"}, []interface{}{strings.ToUpper(sizeCategory)})
	query := `SELECT ` + standColumns + ` FROM stands` + where + ` ORDER BY size_category, name`
	query, args = withLimit(query, args, filter.Limit)
	return s.query(ctx, query, args...)
}

func (s *StandStore) query(ctx context.Context, query string, args ...interface{}) ([]models.Stand, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stands: %w", err)
	}
	defer rows.Close()

	var stands []models.Stand
	for rows.Next() {
		st, err := scanStand(rows)
		if err != nil {
			return nil, err
		}
		stands = append(stands, *st)
	}
	return stands, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStand(row scanner) (*models.Stand, error) {
	var (
		st       models.Stand
		pier     sql.NullString
		lat, lon sql.NullFloat64
	)
	err := row.Scan(&st.ID, &st.Name, &st.Terminal, &pier, &st.SizeCategory, &st.MaxWingspanM,
		&st.HasJetBridge, &st.IsActive, &st.IsAvailable, &lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knowledge.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan stand: %w", err)
	}
	st.Pier = pier.String
	if lat.Valid {
		st.Latitude = &lat.Float64
	}
	if lon.Valid {
		st.Longitude = &lon.Float64
	}
	return &st, nil
}

func filterClause(f models.StandFilter, conds []string, args []interface{}) (string, []interface{}) {
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if f.Terminal != "" {
		add("UPPER(terminal) = UPPER(?)", f.Terminal)
	}
	if f.Pier != "" {
		add("UPPER(pier) = UPPER(?)", f.Pier)
	}
	if f.SizeCategory != "" {
		add("UPPER(size_category) = UPPER(?)", f.SizeCategory)
	}
	if f.Available != nil {
		add("is_available = ?", *f.Available)
	}
	if f.JetBridge != nil {
		add("has_jet_bridge = ?", *f.JetBridge)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func withLimit(query string, args []interface{}, limit int) (string, []interface{}) {
	if limit <= 0 {
		return query, args
	}
	args = append(args, limit)
	return query + " LIMIT $" + strconv.Itoa(len(args)), args
}
