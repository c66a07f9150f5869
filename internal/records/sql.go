package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"investment-digest/internal/models"
	"investment-digest/internal/security"
)

// Dialect selects SQL syntax differences between the supported databases.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// columns maps property names to table columns.
var columns = map[string]string{
	models.FieldCompanyName:    "company_name",
	models.FieldNextActionDate: "next_action_date",
	models.FieldNextAction:     "next_action",
	models.FieldAmount:         "amount_invested",
	models.FieldStatus:         "status",
	models.FieldNotes:          "notes",
}

// SQLSource reads investment rows from a relational table.
type SQLSource struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLiteSource opens an existing SQLite records database. A missing file
// is reported on the first query instead of being created.
func NewSQLiteSource(dbPath string) (*SQLSource, error) {
	return openSQLite(dbPath, "rw")
}

// CreateSQLiteSource opens a SQLite records database, creating the file if needed.
func CreateSQLiteSource(dbPath string) (*SQLSource, error) {
	return openSQLite(dbPath, "rwc")
}

func openSQLite(dbPath, mode string) (*SQLSource, error) {
	dsn := fmt.Sprintf("file:%s?mode=%s&_journal_mode=WAL&_busy_timeout=5000", dbPath, mode)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLSource{db: db, dialect: DialectSQLite}, nil
}

// NewPostgresSource connects to a Postgres records database.
func NewPostgresSource(ctx context.Context, url string) (*SQLSource, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect: %w", security.MaskError(err))
	}

	return &SQLSource{db: db, dialect: DialectPostgres}, nil
}

// Name returns the source name.
func (s *SQLSource) Name() string {
	return string(s.dialect)
}

// Close closes the database connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the investments table when it does not exist.
func (s *SQLSource) EnsureSchema(ctx context.Context, table string) error {
	if err := security.ValidateIdentifier(table); err != nil {
		return err
	}

	dateType, amountType := "TEXT", "REAL"
	if s.dialect == DialectPostgres {
		dateType, amountType = "DATE", "NUMERIC(14,2)"
	}

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		company_name TEXT,
		next_action_date %s,
		next_action TEXT,
		amount_invested %s,
		status TEXT,
		notes TEXT,
		url TEXT
	)`, table, dateType, amountType)

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Query returns every row of the table. Rows without a next action date sort last.
func (s *SQLSource) Query(ctx context.Context, table string, sorts []SortSpec) ([]models.RawRecord, error) {
	if err := security.ValidateIdentifier(table); err != nil {
		return nil, err
	}

	orderBy, err := orderClause(sorts)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, company_name, CAST(next_action_date AS TEXT), next_action,
		       amount_invested, status, notes, url
		FROM %s%s`, table, orderBy)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	recs := []models.RawRecord{}
	for rows.Next() {
		var id string
		var company, due, action, status, notes, url sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&id, &company, &due, &action, &amount, &status, &notes, &url); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		recs = append(recs, rowToRecord(id, company, due, action, amount, status, notes, url))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return recs, nil
}

// Insert upserts a record into the table.
func (s *SQLSource) Insert(ctx context.Context, table string, rec models.RawRecord) error {
	if err := security.ValidateIdentifier(table); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_name, next_action_date, next_action, amount_invested, status, notes, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			company_name = excluded.company_name,
			next_action_date = excluded.next_action_date,
			next_action = excluded.next_action,
			amount_invested = excluded.amount_invested,
			status = excluded.status,
			notes = excluded.notes,
			url = excluded.url`, table)

	var due, amount interface{}
	if p, ok := rec.Properties[models.FieldNextActionDate]; ok && p.Date != nil && p.Date.Start != "" {
		due = p.Date.Start
	}
	if p, ok := rec.Properties[models.FieldAmount]; ok && p.Number != nil {
		amount = *p.Number
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		nullIfEmpty(titleOf(rec, models.FieldCompanyName)),
		due,
		nullIfEmpty(textOf(rec, models.FieldNextAction)),
		amount,
		nullIfEmpty(rec.Status()),
		nullIfEmpty(textOf(rec, models.FieldNotes)),
		nullIfEmpty(rec.URL),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", rec.ID, err)
	}
	return nil
}

func orderClause(sorts []SortSpec) (string, error) {
	if len(sorts) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(sorts)*2)
	for _, s := range sorts {
		col, ok := columns[s.Field]
		if !ok {
			return "", fmt.Errorf("cannot sort by unknown property %q", s.Field)
		}
		dir := "DESC"
		if s.Ascending {
			dir = "ASC"
		}
		parts = append(parts, col+" IS NULL", col+" "+dir)
	}
	return "\n\t\tORDER BY " + strings.Join(parts, ", "), nil
}

func rowToRecord(id string, company, due, action sql.NullString, amount sql.NullFloat64, status, notes, url sql.NullString) models.RawRecord {
	props := map[string]models.Property{}

	if company.Valid {
		props[models.FieldCompanyName] = models.Property{
			Type:  models.PropertyTitle,
			Title: []models.RichText{{PlainText: company.String}},
		}
	}
	if due.Valid && due.String != "" {
		props[models.FieldNextActionDate] = models.Property{
			Type: models.PropertyDate,
			Date: &models.DateValue{Start: due.String},
		}
	}
	if action.Valid {
		props[models.FieldNextAction] = models.Property{
			Type:     models.PropertyRichText,
			RichText: []models.RichText{{PlainText: action.String}},
		}
	}
	if amount.Valid {
		v := amount.Float64
		props[models.FieldAmount] = models.Property{Type: models.PropertyNumber, Number: &v}
	}
	if status.Valid {
		props[models.FieldStatus] = models.Property{
			Type:   models.PropertySelect,
			Select: &models.SelectOption{Name: status.String},
		}
	}
	if notes.Valid {
		props[models.FieldNotes] = models.Property{
			Type:     models.PropertyRichText,
			RichText: []models.RichText{{PlainText: notes.String}},
		}
	}

	return models.RawRecord{ID: id, URL: url.String, Properties: props}
}

func titleOf(rec models.RawRecord, field string) string {
	return models.PlainText(rec.Properties[field].Title)
}

func textOf(rec models.RawRecord, field string) string {
	return models.PlainText(rec.Properties[field].RichText)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
