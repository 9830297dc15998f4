package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"autosync/serving/internal/config"
	"autosync/serving/internal/domain"
)

// PostgresStore is the append log: emitted readings and fired escalations
// are written once and never updated.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?pool_max_conns=%d",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBMaxConns,
	)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var archiveColumns = []string{
	"session_id",
	"emitted_at",
	"sample_timestamp",
	"rpm",
	"speed",
	"temp",
	"dtc",
	"alert",
}

// ArchiveReadings appends a batch of emitted readings.
func (s *PostgresStore) ArchiveReadings(ctx context.Context, batch []domain.ArchivedReading) error {
	if len(batch) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(batch))
	for i, a := range batch {
		rows[i] = []interface{}{
			a.SessionID,
			a.EmittedAt,
			a.Reading.Timestamp,
			a.Reading.RPM,
			a.Reading.Speed,
			a.Reading.Temp,
			a.Reading.FaultCode(),
			a.Reading.Alert,
		}
	}

	_, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{"telemetry_archive"},
		archiveColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("CopyFrom failed for batch of %d: %w", len(batch), err)
	}

	return nil
}

// AppendEscalation records one fired escalation.
func (s *PostgresStore) AppendEscalation(ctx context.Context, ev domain.EscalationEvent) error {
	query := `
		INSERT INTO escalation_log
			(session_id, vehicle_reg, code, description, temp, slot_id, occurred_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(
		ctx,
		query,
		ev.SessionID,
		ev.VehicleReg,
		ev.Code,
		ev.Description,
		ev.Temp,
		ev.SlotID,
		ev.OccurredAt,
	)
	return err
}
