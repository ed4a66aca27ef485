package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

// CLI flags
var (
	csvPath     = flag.String("csv", "", "Path to the source CSV (required)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform destructive replace")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

// CSV contract
// external_id,name,classification,county,state,lat,lng,phone,website,permit_portal,counties_served,turnaround_days
// counties_served is semicolon-separated without spaces; lat/lng may be blank for rows pending geocoding

type AHJCSV struct {
	ExternalID     string
	Name           string
	Classification string
	County         string
	State          string
	Lat            float64
	Lng            float64
	Phone          string
	Website        string
	PermitPortal   string
	CountiesServed []string
	TurnaroundDays int
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	rows, err := loadCSV(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}

	// Basic validation
	if err := validateRows(rows); err != nil {
		fatalf("CSV validation failed: %v", err)
	}

	fmt.Printf("Loaded %d AHJs from %s\n", len(rows), *csvPath)

	if *dryRun {
		printPlan(rows)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock to avoid concurrent runs
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	before, err := countCSVRows(ctx, tx)
	if err != nil {
		fatalf("pre-count: %v", err)
	}
	fmt.Printf("Before: csv-sourced ahjs=%d\n", before)

	// Destructive replace of prior CSV imports only; synced/seeded rows
	// are left alone.
	if _, err := tx.ExecContext(ctx, `DELETE FROM mapdata.ahjs WHERE source = 'csv'`); err != nil {
		fatalf("wipe csv rows: %v", err)
	}

	if err := insertAll(ctx, tx, rows); err != nil {
		fatalf("insert data: %v", err)
	}

	after, err := countCSVRows(ctx, tx)
	if err != nil {
		fatalf("post-count: %v", err)
	}
	fmt.Printf("After:  csv-sourced ahjs=%d\n", after)

	if after != int64(len(rows)) {
		fatalf("sanity check failed: inserted=%d loaded=%d", after, len(rows))
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Import complete ✅")
}

func loadCSV(path string) ([]AHJCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	r := csv.NewReader(br)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	required := []string{"external_id", "name", "classification", "county", "state", "lat", "lng"}
	for _, k := range required {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []AHJCSV
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		line++

		row := AHJCSV{
			ExternalID:     get(rec, "external_id"),
			Name:           get(rec, "name"),
			Classification: get(rec, "classification"),
			County:         get(rec, "county"),
			State:          strings.ToUpper(get(rec, "state")),
			Phone:          get(rec, "phone"),
			Website:        get(rec, "website"),
			PermitPortal:   get(rec, "permit_portal"),
		}

		// Blank coordinates are fine; they land as (0,0) and rank last.
		if v := get(rec, "lat"); v != "" {
			row.Lat, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad lat %q", line, v)
			}
		}
		if v := get(rec, "lng"); v != "" {
			row.Lng, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad lng %q", line, v)
			}
		}
		if v := get(rec, "turnaround_days"); v != "" {
			row.TurnaroundDays, err = strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad turnaround_days %q", line, v)
			}
		}

		if counties := get(rec, "counties_served"); counties != "" {
			for _, p := range strings.Split(counties, ";") {
				if c := strings.TrimSpace(p); c != "" {
					row.CountiesServed = append(row.CountiesServed, c)
				}
			}
		}

		out = append(out, row)
	}
	return out, nil
}

func validateRows(rows []AHJCSV) error {
	if len(rows) == 0 {
		return fmt.Errorf("CSV has no data rows")
	}
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		if r.ExternalID == "" {
			return fmt.Errorf("row %d: external_id is empty", i+2)
		}
		if r.Name == "" {
			return fmt.Errorf("row %d: name is empty", i+2)
		}
		if len(r.State) != 2 {
			return fmt.Errorf("row %d: state %q is not a 2-letter code", i+2, r.State)
		}
		if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
			return fmt.Errorf("row %d: lat/lng out of range", i+2)
		}
		if _, dup := seen[r.ExternalID]; dup {
			return fmt.Errorf("row %d: duplicate external_id '%s'", i+2, r.ExternalID)
		}
		seen[r.ExternalID] = struct{}{}
	}
	return nil
}

func printPlan(rows []AHJCSV) {
	states := map[string]int{}
	noCoords := 0
	for _, r := range rows {
		states[r.State]++
		if r.Lat == 0 && r.Lng == 0 {
			noCoords++
		}
	}
	fmt.Println("Plan preview:")
	fmt.Printf("  AHJs to insert: %d\n", len(rows))
	fmt.Printf("  States covered: %d\n", len(states))
	fmt.Printf("  Rows without coordinates: %d\n", noCoords)
	fmt.Println("  Tables affected (destructive): mapdata.ahjs rows with source='csv'")
}

func countCSVRows(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx, `SELECT count(*) FROM mapdata.ahjs WHERE source = 'csv'`).Scan(&n)
	return n, err
}

func insertAll(ctx context.Context, tx *sql.Tx, rows []AHJCSV) error {
	// prepared statement for speed & safety
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mapdata.ahjs
			(external_id, name, classification, county, state, lat, lng,
			 phone, website, permit_portal, counties_served, turnaround_days,
			 source, last_synced)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::text[],$12,'csv',now())
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			classification = EXCLUDED.classification,
			county = EXCLUDED.county,
			state = EXCLUDED.state,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			permit_portal = EXCLUDED.permit_portal,
			counties_served = EXCLUDED.counties_served,
			turnaround_days = EXCLUDED.turnaround_days,
			source = 'csv',
			last_synced = now()`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.ExternalID, r.Name, r.Classification, r.County, r.State,
			r.Lat, r.Lng, r.Phone, r.Website, r.PermitPortal,
			pq.Array(r.CountiesServed), r.TurnaroundDays,
		); err != nil {
			return fmt.Errorf("insert ahj '%s': %w", r.ExternalID, err)
		}
	}
	return nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
