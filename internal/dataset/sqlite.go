package dataset

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type SQLiteSink struct {
	db      *sql.DB
	episode sql.NullInt64
}

// OpenSQLite opens or creates the database at path and brings its schema up
// to date.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	// m is not closed: closing it closes db.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration version.
func (s *SQLiteSink) SchemaVersion() (uint, error) {
	var v uint
	err := s.db.QueryRow("SELECT version FROM schema_migrations LIMIT 1").Scan(&v)
	return v, err
}

func (s *SQLiteSink) StartEpisode(e Episode) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO episodes (mu_peak, initial_speed, desired_slip, steps) VALUES (?, ?, ?, ?)",
		e.MuPeak, e.InitialSpeed, e.DesiredSlip, e.Steps,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.episode = sql.NullInt64{Int64: id, Valid: true}
	return id, nil
}

func (s *SQLiteSink) Write(rows ...Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO samples (
		episode_id, wheel_index, slip_ratio, angular_velocity, linear_speed,
		current_brake_torque, current_drive_torque, desired_brake_torque, desired_drive_torque
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(s.episode, r.WheelIndex, r.SlipRatio, r.AngularVelocity, r.LinearSpeed,
			r.CurrentBrakeTorque, r.CurrentDriveTorque, r.DesiredBrakeTorque, r.DesiredDriveTorque)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSink) Rows(ctx context.Context) ([]Row, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT
		wheel_index, slip_ratio, angular_velocity, linear_speed,
		current_brake_torque, current_drive_torque, desired_brake_torque, desired_drive_torque
		FROM samples ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var rows []Row
	for rs.Next() {
		var r Row
		if err := rs.Scan(&r.WheelIndex, &r.SlipRatio, &r.AngularVelocity, &r.LinearSpeed,
			&r.CurrentBrakeTorque, &r.CurrentDriveTorque, &r.DesiredBrakeTorque, &r.DesiredDriveTorque); err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, rs.Err()
}

func (s *SQLiteSink) Episodes(ctx context.Context) ([]Episode, error) {
	rs, err := s.db.QueryContext(ctx,
		"SELECT id, mu_peak, initial_speed, desired_slip, steps FROM episodes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var eps []Episode
	for rs.Next() {
		var e Episode
		if err := rs.Scan(&e.ID, &e.MuPeak, &e.InitialSpeed, &e.DesiredSlip, &e.Steps); err != nil {
			return nil, err
		}
		eps = append(eps, e)
	}
	return eps, rs.Err()
}

// EpisodeRowCount returns how many samples were written for episode id.
func (s *SQLiteSink) EpisodeRowCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM samples WHERE episode_id = ?", id).Scan(&n)
	return n, err
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
