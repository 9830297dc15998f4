package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using system environment variables")
	}

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		dbGetEnv("DB_USER", "autosync_user"),
		dbGetEnv("DB_PASSWORD", "autosync_password"),
		dbGetEnv("DB_HOST", "localhost"),
		dbGetEnv("DB_PORT", "5432"),
		dbGetEnv("DB_NAME", "autosync"),
	)

	ctx := context.Background()

	fmt.Println("Connecting to Postgres...")
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Connection failed: %v\n\nMake sure Postgres is running:\n  docker-compose up -d postgres", err)
	}
	defer conn.Close(ctx)
	fmt.Println("✓ Connected")

	step1_archive_table(ctx, conn)
	step2_escalation_table(ctx, conn)
	step3_indexes(ctx, conn)

	fmt.Println("\n✅ Database initialised successfully")
}

// ─────────────────────────────────────────────────────────────
// Step 1 — telemetry_archive table
// ─────────────────────────────────────────────────────────────
func step1_archive_table(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 1: telemetry_archive table ─────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS telemetry_archive (

			-- Server emission time — the replay clock, always accurate
			emitted_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),

			-- Streaming session that emitted this reading
			session_id        TEXT        NOT NULL,

			-- Dataset row timestamp, kept as text exactly as replayed
			sample_timestamp  TEXT        NOT NULL,

			-- Sensor readings
			rpm               INTEGER     NOT NULL DEFAULT 0,
			speed             INTEGER     NOT NULL DEFAULT 0,
			temp              INTEGER     NOT NULL DEFAULT 0,

			-- Trouble code, empty when the reading was fault-free
			dtc               TEXT        NOT NULL DEFAULT '',

			-- Booking confirmation, set on the escalation tick only
			alert             TEXT        NOT NULL DEFAULT ''
		);
	`, "telemetry_archive table created")
}

// ─────────────────────────────────────────────────────────────
// Step 2 — escalation_log table
// ─────────────────────────────────────────────────────────────
func step2_escalation_table(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 2: escalation_log table ────────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS escalation_log (
			session_id   TEXT        NOT NULL,
			vehicle_reg  TEXT        NOT NULL,
			code         TEXT        NOT NULL,
			description  TEXT        NOT NULL,
			temp         INTEGER     NOT NULL DEFAULT 0,
			slot_id      TEXT        NOT NULL DEFAULT '',
			occurred_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`, "escalation_log table created")
}

// ─────────────────────────────────────────────────────────────
// Step 3 — Indexes
// ─────────────────────────────────────────────────────────────
func step3_indexes(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 3: Indexes ─────────────────────────────")

	execOrFatal(ctx, conn,
		"CREATE INDEX IF NOT EXISTS idx_archive_session ON telemetry_archive (session_id, emitted_at);",
		"telemetry_archive session index",
	)
	execOrFatal(ctx, conn,
		"CREATE INDEX IF NOT EXISTS idx_escalation_vehicle ON escalation_log (vehicle_reg, occurred_at);",
		"escalation_log vehicle index",
	)
}

func execOrFatal(ctx context.Context, conn *pgx.Conn, sql, label string) {
	if _, err := conn.Exec(ctx, sql); err != nil {
		log.Fatalf("✗ %s failed: %v", label, err)
	}
	fmt.Printf("✓ %s\n", label)
}

func dbGetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
