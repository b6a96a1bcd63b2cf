package taxonomy

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core/model"
)

// MySQLSource reads the coded category table and the reference material
// table from the surrounding system's MySQL database.
type MySQLSource struct {
	db            *sql.DB
	categoryTable string
	materialTable string
}

func NewMySQLSource(cfg config.MySQLConfig) (*MySQLSource, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	return &MySQLSource{
		db:            db,
		categoryTable: cfg.CategoryTable,
		materialTable: cfg.MaterialTable,
	}, nil
}

func (s *MySQLSource) Close() error {
	return s.db.Close()
}

func (s *MySQLSource) Categories(ctx context.Context) ([]model.CategoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT
			category_code,
			cate_name,
			CHAR_LENGTH(category_code) AS code_length
		FROM %s
		ORDER BY category_code
	`, s.categoryTable)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var records []model.CategoryRecord
	for rows.Next() {
		var rec model.CategoryRecord
		if err := rows.Scan(&rec.Code, &rec.Name, &rec.CodeLength); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *MySQLSource) MaterialCount(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.materialTable)

	var total int
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return total, nil
}

func (s *MySQLSource) Materials(ctx context.Context, offset, limit int) ([]model.ReferenceMaterial, error) {
	query := fmt.Sprintf(`
		SELECT
			id,
			material_name,
			COALESCE(big_class_name, ''),
			COALESCE(middle_class_name, ''),
			COALESCE(small_class_name, ''),
			COALESCE(small_class_code, '')
		FROM %s
		ORDER BY id
		LIMIT ? OFFSET ?
	`, s.materialTable)

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []model.ReferenceMaterial
	for rows.Next() {
		var m model.ReferenceMaterial
		if err := rows.Scan(&m.ID, &m.MaterialName, &m.BigClassName, &m.MiddleClassName, &m.SmallClassName, &m.SmallClassCode); err != nil {
			return nil, fmt.Errorf("failed to scan material row: %w", err)
		}
		materials = append(materials, m)
	}

	return materials, rows.Err()
}
