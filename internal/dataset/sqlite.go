package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ppiankov/reviewlens/internal/model"

	_ "modernc.org/sqlite"
)

// Tables read by SQLiteSource
const (
	TableReviews      = "clean_reviews"
	TableCompanies    = "company_df"
	TableClusterTerms = "cluster_terms"
)

// SQLiteSource reads the artifacts from tables of one SQLite database:
// clean_reviews and company_df with the same columns as the CSV files, and
// an optional cluster_terms(cluster_id, terms) table whose terms column is a
// JSON array of strings.
type SQLiteSource struct {
	Path string
}

func (s *SQLiteSource) String() string {
	return "sqlite " + s.Path
}

// Load opens the database and reads all three tables
func (s *SQLiteSource) Load(ctx context.Context, opts Options) (*Dataset, error) {
	// sql.Open would silently create a new empty database
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	h := newFingerprint()
	fmt.Fprintf(h, "%s|%d|%d", s.Path, info.Size(), info.ModTime().UnixNano())

	reviewsTable, err := queryTable(ctx, db, TableReviews)
	if err != nil {
		return nil, err
	}
	companyTable, err := queryTable(ctx, db, TableCompanies)
	if err != nil {
		return nil, err
	}
	terms, err := queryTerms(ctx, db)
	if err != nil {
		return nil, err
	}

	return assemble(reviewsTable, companyTable, terms, h, opts)
}

// queryTable reads a whole table into the string-cell shape shared with CSV
func queryTable(ctx context.Context, db *sql.DB, name string) (*table, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %q", name))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", name, err)
	}

	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var records [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = sqlString(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return newTable(name, header, records), nil
}

// queryTerms reads the optional cluster_terms table
func queryTerms(ctx context.Context, db *sql.DB) (model.ClusterTerms, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", TableClusterTerms,
	).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	if n == 0 {
		return model.ClusterTerms{}, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT cluster_id, terms FROM %q", TableClusterTerms))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", TableClusterTerms, err)
	}
	defer func() { _ = rows.Close() }()

	raw := make(map[string][]string)
	for rows.Next() {
		var id any
		var encoded string
		if err := rows.Scan(&id, &encoded); err != nil {
			return nil, fmt.Errorf("scan %s: %w", TableClusterTerms, err)
		}
		var terms []string
		if err := json.Unmarshal([]byte(encoded), &terms); err != nil {
			return nil, fmt.Errorf("decode terms for cluster %s: %w", sqlString(id), err)
		}
		raw[sqlString(id)] = terms
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", TableClusterTerms, err)
	}

	return canonicalTerms(raw), nil
}

// sqlString renders a scanned SQLite value the way a CSV export would
func sqlString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []byte:
		return string(t)
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
