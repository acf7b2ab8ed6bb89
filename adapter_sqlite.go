package vlist

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLAdapter is a reference Adapter backed by database/sql and
// github.com/mattn/go-sqlite3, exercising the offset and page paging
// strategies against a real store instead of a mock-only test double. It
// opens a database/sql handle and scans rows.Scan results into a generic
// []any row, wrapped in a fixed SELECT... LIMIT ? OFFSET ? / SELECT COUNT(*)
// pair.
type SQLAdapter struct {
	db    *sql.DB
	table string
	// Columns names every column to select, in order; each becomes an Item
	// field keyed by its column name.
	Columns []string
}

// OpenSQLAdapter opens (or creates) a SQLite database at path and returns an
// adapter reading from table.
func OpenSQLAdapter(path, table string, columns []string) (*SQLAdapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite3 %s: %w", path, err)
	}
	return &SQLAdapter{db: db, table: table, Columns: columns}, nil
}

// Close releases the underlying database handle.
func (a *SQLAdapter) Close() error {
	return a.db.Close()
}

// Read implements Adapter. Page paging is converted to an offset internally
// (offset = page*limit); cursor paging is not supported by SQLAdapter
// (WebSocketAdapter demonstrates that strategy instead).
func (a *SQLAdapter) Read(ctx context.Context, params PageParams) (PageResult, error) {
	if params.Strategy == StrategyCursor {
		return PageResult{}, fmt.Errorf("%w: SQLAdapter does not support cursor paging", ErrAdapterFailed)
	}

	offset := params.Offset
	limit := params.Limit
	if params.Strategy == StrategyPage {
		offset = params.Page * limit
	}

	cols := "*"
	if len(a.Columns) > 0 {
		cols = strings.Join(a.Columns, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s", cols, a.table)
	query += orderByClause(params.Sort)
	query += " LIMIT ? OFFSET ?"

	rows, err := a.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: %v", ErrAdapterFailed, err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: %v", ErrAdapterFailed, err)
	}

	total, err := a.count(ctx)
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: %v", ErrAdapterFailed, err)
	}

	return PageResult{
		Items: items,
		Meta:  Meta{Total: total, HasMore: offset+len(items) < total},
	}, nil
}

func (a *SQLAdapter) count(ctx context.Context) (int, error) {
	var total int
	err := a.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", a.table)).Scan(&total)
	return total, err
}

func orderByClause(sorts []SortSpec) string {
	if len(sorts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", s.Field, dir))
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// scanItems scans each row into a []any slot per column, then keys the
// values into an Item map by column name instead of a fixed []string row.
func scanItems(rows *sql.Rows) ([]Item, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0)
	row := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range row {
		ptrs[i] = &row[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		item := make(Item, len(cols))
		for i, c := range cols {
			item[c] = row[i]
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
