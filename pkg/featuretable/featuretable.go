// Package featuretable хранит клинья во встраиваемой базе sqlite:
// чтение входных строк, запись готовых полигонов и присоединение
// исходных атрибутов к результату по идентификатору.
package featuretable

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // регистрация драйвера database/sql

	"github.com/0x0FACED/go-wedge/pkg/featureio"
	"github.com/0x0FACED/go-wedge/pkg/logger"
	"github.com/0x0FACED/go-wedge/pkg/wedge"
	"go.uber.org/zap"
)

type Store struct {
	db  *sql.DB
	log *logger.ZapLogger
}

// Open открывает файл базы (или :memory:) и проверяет соединение пингом.
func Open(ctx context.Context, path string, log *logger.ZapLogger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// встраиваемый движок: одно соединение, без ротации
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	log.Info("[table] база открыта", zap.String("path", path))
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReadRows читает клинья из таблицы по тому же сопоставлению колонок,
// что и CSV: значения приводятся к строкам и идут общим путем разбора.
func (s *Store) ReadRows(ctx context.Context, table string, cols featureio.Columns) ([]featureio.Row, []featureio.RowError, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns of %s: %w", table, err)
	}

	var records [][]string
	vals := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec := make([]string, len(header))
		for i, v := range vals {
			rec[i] = cellString(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	s.log.Info("[table] строки прочитаны", zap.String("table", table), zap.Int("rows", len(records)))
	return featureio.RowsFromRecords(header, records, cols)
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// WriteFeatures создает таблицу результата и пишет фигуры: id, WKT,
// площадь и колонки присоединенных атрибутов исходных строк.
func (s *Store) WriteFeatures(ctx context.Context, table string, coll *wedge.Collection, attrs map[string]map[string]string) error {
	attrCols := attrColumns(coll, attrs)

	var ddl strings.Builder
	fmt.Fprintf(&ddl, `CREATE TABLE IF NOT EXISTS %q (id TEXT PRIMARY KEY, wkt TEXT NOT NULL, area REAL NOT NULL`, table)
	for _, c := range attrCols {
		fmt.Fprintf(&ddl, `, %q TEXT`, c)
	}
	ddl.WriteByte(')')
	if _, err := s.db.ExecContext(ctx, ddl.String()); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	colNames := []string{`"id"`, `"wkt"`, `"area"`}
	for _, c := range attrCols {
		colNames = append(colNames, fmt.Sprintf("%q", c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(colNames)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT OR REPLACE INTO %q (%s) VALUES (%s)`,
		table, strings.Join(colNames, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range coll.Features {
		args := []any{f.ID, featureio.FormatWKT(f.Shape), f.Shape.Area()}
		for _, c := range attrCols {
			if v, ok := attrs[f.ID][c]; ok {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert wedge %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Info("[table] результат записан", zap.String("table", table), zap.Int("features", len(coll.Features)))
	return nil
}

// attrColumns — объединение атрибутных колонок по фигурам коллекции,
// отсортированное для детерминированной схемы. Имена, совпадающие со
// служебными колонками, пропускаются.
func attrColumns(coll *wedge.Collection, attrs map[string]map[string]string) []string {
	seen := map[string]bool{"id": true, "wkt": true, "area": true}
	var cols []string
	for _, f := range coll.Features {
		for k := range attrs[f.ID] {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
