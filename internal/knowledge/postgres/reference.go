package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/models"
)

const (
	aircraftColumns = `id, iata_code, icao_code, name, manufacturer, size_category, wingspan_m, length_m`
	airlineColumns  = `id, iata_code, icao_code, name, country`
)

// ReferenceStore serves aircraft types and airlines. Name search ranks the
// whole table in memory, which is fine for reference tables of this size.
type ReferenceStore struct {
	db *sql.DB
}

func NewReferenceStore(db *sql.DB) *ReferenceStore {
	return &ReferenceStore{db: db}
}

func (r *ReferenceStore) AircraftByCode(ctx context.Context, code string) (*models.AircraftType, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+aircraftColumns+` FROM aircraft_types
		 WHERE UPPER(iata_code) = UPPER($1) OR UPPER(icao_code) = UPPER($1) LIMIT 1`,
		strings.TrimSpace(code))
	return scanAircraft(row)
}

func (r *ReferenceStore) AircraftByID(ctx context.Context, id int64) (*models.AircraftType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+aircraftColumns+` FROM aircraft_types WHERE id = $1`, id)
	return scanAircraft(row)
}

func (r *ReferenceStore) SearchAircraft(ctx context.Context, name string, limit int) ([]models.AircraftType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+aircraftColumns+` FROM aircraft_types`)
	if err != nil {
		return nil, fmt.Errorf("query aircraft types: %w", err)
	}
	defer rows.Close()

	var all []models.AircraftType
	for rows.Next() {
		a, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return knowledge.RankByName(all, func(a models.AircraftType) string { return a.Name }, name, limit), nil
}

func (r *ReferenceStore) AirlineByCode(ctx context.Context, code string) (*models.Airline, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+airlineColumns+` FROM airlines
		 WHERE UPPER(iata_code) = UPPER($1) OR UPPER(icao_code) = UPPER($1) LIMIT 1`,
		strings.TrimSpace(code))
	return scanAirline(row)
}

func (r *ReferenceStore) AirlineByID(ctx context.Context, id int64) (*models.Airline, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+airlineColumns+` FROM airlines WHERE id = $1`, id)
	return scanAirline(row)
}

func (r *ReferenceStore) SearchAirlines(ctx context.Context, name string, limit int) ([]models.Airline, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+airlineColumns+` FROM airlines`)
	if err != nil {
		return nil, fmt.Errorf("query airlines: %w", err)
	}
	defer rows.Close()

	var all []models.Airline
	for rows.Next() {
		a, err := scanAirline(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return knowledge.RankByName(all, func(a models.Airline) string { return a.Name }, name, limit), nil
}

func scanAircraft(row scanner) (*models.AircraftType, error) {
	var (
		a           models.AircraftType
		iata, manuf sql.NullString
	)
	err := row.Scan(&a.ID, &iata, &a.ICAOCode, &a.Name, &manuf, &a.SizeCategory, &a.WingspanM, &a.LengthM)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knowledge.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan aircraft type: %w", err)
	}
	a.IATACode = iata.String
	a.Manufacturer = manuf.String
	return &a, nil
}

func scanAirline(row scanner) (*models.Airline, error) {
	var (
		a             models.Airline
		icao, country sql.NullString
	)
	err := row.Scan(&a.ID, &a.IATACode, &icao, &a.Name, &country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knowledge.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan airline: %w", err)
	}
	a.ICAOCode = icao.String
	a.Country = country.String
	return &a, nil
}
