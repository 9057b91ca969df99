package migrations

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo is the live shape of one column.
type ColumnInfo struct {
	Name    string
	NotNull bool
	Default *string
}

// Snapshot is the live shape of the schema, used to verify migrations.
type Snapshot struct {
	Tables  map[string][]ColumnInfo
	Indexes map[string][]string
}

// TableColumns lists the columns of table in declaration order. A missing
// table yields no columns.
func TableColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	var query string
	switch dialectOf(db) {
	case dialectSQLite:
		query = `SELECT name AS name, "notnull" AS not_null, dflt_value AS "default" FROM pragma_table_info(?) ORDER BY cid`
	case dialectPostgres:
		query = `SELECT column_name AS name, (is_nullable = 'NO') AS not_null, column_default AS "default"
			FROM information_schema.columns
			WHERE table_schema = CURRENT_SCHEMA() AND table_name = ?
			ORDER BY ordinal_position`
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialectOf(db))
	}

	var cols []ColumnInfo
	if err := db.Raw(query, table).Scan(&cols).Error; err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	return cols, nil
}

func hasColumn(db *gorm.DB, table, name string) (bool, error) {
	cols, err := TableColumns(db, table)
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// TableIndexes lists the explicitly created indexes of table.
func TableIndexes(db *gorm.DB, table string) ([]string, error) {
	var query string
	switch dialectOf(db) {
	case dialectSQLite:
		query = "SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL"
	case dialectPostgres:
		query = "SELECT indexname FROM pg_indexes WHERE schemaname = CURRENT_SCHEMA() AND tablename = ? AND indexname LIKE 'IDX\\_%'"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialectOf(db))
	}
	names, err := queryStrings(db, query, table)
	if err != nil {
		return nil, fmt.Errorf("list indexes of %s: %w", table, err)
	}
	sort.Strings(names)
	return names, nil
}

// TakeSnapshot records every application table with its columns and indexes,
// both sorted by name so snapshots compare independently of column order.
func TakeSnapshot(db *gorm.DB) (*Snapshot, error) {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	snap := &Snapshot{
		Tables:  make(map[string][]ColumnInfo, len(tables)),
		Indexes: make(map[string][]string, len(tables)),
	}
	for _, t := range tables {
		if strings.HasPrefix(t, "sqlite_") {
			continue
		}
		cols, err := TableColumns(db, t)
		if err != nil {
			return nil, err
		}
		idx, err := TableIndexes(db, t)
		if err != nil {
			return nil, err
		}
		sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
		snap.Tables[t] = cols
		snap.Indexes[t] = idx
	}
	return snap, nil
}

// TableNames returns the snapshot's tables in sorted order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for t := range s.Tables {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// Column looks up a column of table.
func (s *Snapshot) Column(table, name string) (ColumnInfo, bool) {
	for _, c := range s.Tables[table] {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}
