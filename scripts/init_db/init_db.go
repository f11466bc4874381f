package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v4"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using system environment variables")
	}

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "truckwatch"),
	)

	ctx := context.Background()

	fmt.Println("Connecting to Postgres...")
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer conn.Close(ctx)
	fmt.Println("✓ Connected")

	step1Tables(ctx, conn)
	step2ChangeTrigger(ctx, conn)
	step3SeedWarehouses(ctx, conn)
	step4Verify(ctx, conn)

	fmt.Println("\n✅ Database initialised successfully")
}

func step1Tables(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 1: Tables ──────────────────────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS truck_locations (
			id         BIGSERIAL        PRIMARY KEY,
			truck_id   INTEGER          NOT NULL,
			latitude   DOUBLE PRECISION NOT NULL,
			longitude  DOUBLE PRECISION NOT NULL,
			timestamp  TIMESTAMPTZ      NOT NULL
		);
	`, "truck_locations table created")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS warehouses (
			id         INTEGER          PRIMARY KEY,
			name       TEXT             NOT NULL,
			latitude   DOUBLE PRECISION NOT NULL,
			longitude  DOUBLE PRECISION NOT NULL
		);
	`, "warehouses table created")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS proximity_alerts (
			id            UUID             PRIMARY KEY,
			truck_id      INTEGER          NOT NULL,
			warehouse_id  INTEGER          NOT NULL,
			distance_km   DOUBLE PRECISION NOT NULL,
			created_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);
	`, "proximity_alerts table created")

	execOrFatal(ctx, conn, `
		CREATE INDEX IF NOT EXISTS idx_truck_locations_truck_time
		ON truck_locations (truck_id, timestamp DESC);
	`, "idx_truck_locations_truck_time")

	execOrFatal(ctx, conn, `
		CREATE INDEX IF NOT EXISTS idx_proximity_alerts_created
		ON proximity_alerts (created_at DESC);
	`, "idx_proximity_alerts_created")
}

func step2ChangeTrigger(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 2: Change feed trigger ─────────────────")

	// The payload shape matches feed.ChangeEvent; operation 0 is an insert.
	execOrFatal(ctx, conn, `
		CREATE OR REPLACE FUNCTION notify_truck_location() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('truck_locations', json_build_object(
				'Operation', 0,
				'Item', json_build_object(
					'TruckID', NEW.truck_id,
					'Latitude', NEW.latitude,
					'Longitude', NEW.longitude,
					'Timestamp', NEW.timestamp
				)
			)::text);
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql;
	`, "notify_truck_location function created")

	execOrFatal(ctx, conn,
		`DROP TRIGGER IF EXISTS truck_locations_notify ON truck_locations;`,
		"old trigger dropped",
	)

	execOrFatal(ctx, conn, `
		CREATE TRIGGER truck_locations_notify
		AFTER INSERT ON truck_locations
		FOR EACH ROW EXECUTE FUNCTION notify_truck_location();
	`, "truck_locations_notify trigger created")
}

func step3SeedWarehouses(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 3: Warehouse reference data ────────────")

	warehouses := []struct {
		id   int
		name string
		lat  float64
		lng  float64
	}{
		{1, "London Central", 51.5074, -0.1278},
		{2, "Manchester North", 53.4808, -2.2426},
		{3, "Birmingham East", 52.4862, -1.8904},
	}

	for _, w := range warehouses {
		_, err := conn.Exec(ctx, `
			INSERT INTO warehouses (id, name, latitude, longitude)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, w.id, w.name, w.lat, w.lng)
		if err != nil {
			log.Fatalf("Failed to seed warehouse %d: %v", w.id, err)
		}
		fmt.Printf("  ✓ %-20s (%.4f, %.4f)\n", w.name, w.lat, w.lng)
	}
}

func step4Verify(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 4: Verification ────────────────────────")

	tables := []string{"truck_locations", "warehouses", "proximity_alerts"}
	for _, table := range tables {
		var exists bool
		err := conn.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_name = $1
			)
		`, table).Scan(&exists)
		if err != nil || !exists {
			log.Fatalf("Table %s was not created: %v", table, err)
		}
		fmt.Printf("  ✓ table: %s\n", table)
	}

	var warehouseCount int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses`).Scan(&warehouseCount); err != nil {
		log.Fatalf("Warehouse check failed: %v", err)
	}
	fmt.Printf("  ✓ warehouses seeded: %d\n", warehouseCount)
}

// execOrFatal runs a SQL statement and prints result or exits on error
func execOrFatal(ctx context.Context, conn *pgx.Conn, sql, label string) {
	_, err := conn.Exec(ctx, sql)
	if err != nil {
		log.Fatalf("FAILED — %s\nError: %v\nSQL: %s", label, err, sql)
	}
	fmt.Printf("  ✓ %s\n", label)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
