package migrations

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"
)

// Column describes one column of a table in a dialect-neutral way.
type Column struct {
	Name       string
	Type       string // uuid, varchar, text, integer, bigint, boolean, date, timestamp, decimal(p,s)
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	Default    string // raw SQL expression, e.g. 'tenant', false, CURRENT_TIMESTAMP
	References string // parent table; the column points at its "id" with ON DELETE CASCADE
}

// Table describes a table by its columns.
type Table struct {
	Name    string
	Columns []Column
}

// Index describes a secondary index, optionally partial.
type Index struct {
	Name    string
	Table   string
	Columns []string
	Where   string
}

func quote(name string) string {
	return `"` + name + `"`
}

func dialectOf(tx *gorm.DB) string {
	return tx.Dialector.Name()
}

func (c Column) sqlType(dialect string) string {
	if dialect == dialectSQLite && c.Type == "uuid" {
		return "text"
	}
	return c.Type
}

func (c Column) definition(dialect string) string {
	var b strings.Builder
	b.WriteString(quote(c.Name))
	b.WriteString(" ")
	b.WriteString(c.sqlType(dialect))
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	if c.References != "" {
		fmt.Fprintf(&b, " REFERENCES %s(%s) ON DELETE CASCADE", quote(c.References), quote("id"))
	}
	return b.String()
}

// addable strips what ALTER TABLE ADD COLUMN cannot carry on an existing table.
func (c Column) addable() Column {
	c.PrimaryKey = false
	c.Unique = false
	if c.Default == "" {
		c.NotNull = false
	}
	return c
}

func (t Table) column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Without returns a copy of t lacking the named columns.
func (t Table) Without(names ...string) Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := Table{Name: t.Name}
	for _, c := range t.Columns {
		if _, ok := drop[c.Name]; !ok {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

// With returns a copy of t where each given column replaces the column of the
// same name, or is appended when t has none.
func (t Table) With(cols ...Column) Table {
	out := Table{Name: t.Name, Columns: append([]Column(nil), t.Columns...)}
	for _, c := range cols {
		replaced := false
		for i := range out.Columns {
			if out.Columns[i].Name == c.Name {
				out.Columns[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

func (t Table) createSQL(dialect string) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = c.definition(dialect)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(t.Name), strings.Join(defs, ", "))
}

func (ix Index) createSQL() string {
	cols := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		cols[i] = quote(c)
	}
	sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", quote(ix.Name), quote(ix.Table), strings.Join(cols, ", "))
	if ix.Where != "" {
		sql += " WHERE " + ix.Where
	}
	return sql
}

// ensureTable creates t when absent, otherwise adds whichever of its columns
// are missing.
func ensureTable(tx *gorm.DB, t Table) error {
	if !tx.Migrator().HasTable(t.Name) {
		if err := tx.Exec(t.createSQL(dialectOf(tx))).Error; err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
		return nil
	}
	for _, c := range t.Columns {
		if err := ensureColumn(tx, t.Name, c); err != nil {
			return err
		}
	}
	return nil
}

func ensureColumn(tx *gorm.DB, table string, c Column) error {
	exists, err := hasColumn(tx, table, c.Name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	def := c.addable().definition(dialectOf(tx))
	if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quote(table), def)).Error; err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, c.Name, err)
	}
	return nil
}

func dropColumnIfExists(tx *gorm.DB, table, name string) error {
	if !tx.Migrator().HasTable(table) {
		return nil
	}
	exists, err := hasColumn(tx, table, name)
	if err != nil || !exists {
		return err
	}
	if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quote(table), quote(name))).Error; err != nil {
		return fmt.Errorf("drop column %s.%s: %w", table, name, err)
	}
	return nil
}

// renameColumnIfExists renames from to to only when from exists and to does not.
func renameColumnIfExists(tx *gorm.DB, table, from, to string) error {
	hasFrom, err := hasColumn(tx, table, from)
	if err != nil {
		return err
	}
	hasTo, err := hasColumn(tx, table, to)
	if err != nil {
		return err
	}
	if !hasFrom || hasTo {
		return nil
	}
	sql := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", quote(table), quote(from), quote(to))
	if err := tx.Exec(sql).Error; err != nil {
		return fmt.Errorf("rename column %s.%s: %w", table, from, err)
	}
	return nil
}

func ensureIndex(tx *gorm.DB, ix Index) error {
	if err := tx.Exec(ix.createSQL()).Error; err != nil {
		return fmt.Errorf("create index %s: %w", ix.Name, err)
	}
	return nil
}

func dropIndexIfExists(tx *gorm.DB, name string) error {
	if err := tx.Exec("DROP INDEX IF EXISTS " + quote(name)).Error; err != nil {
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	return nil
}

func dropTableIfExists(tx *gorm.DB, name string) error {
	if err := tx.Exec("DROP TABLE IF EXISTS " + quote(name)).Error; err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}
	return nil
}

// alterColumn brings an existing column to the nullability and default of c.
// SQLite cannot alter a column in place, so the table is rebuilt there.
func alterColumn(tx *gorm.DB, table string, c Column) error {
	if dialectOf(tx) == dialectSQLite {
		return rebuildSQLiteTable(tx, table, func(defs []string) ([]string, error) {
			for i, def := range defs {
				if definitionName(def) == c.Name {
					defs[i] = c.definition(dialectSQLite)
					return defs, nil
				}
			}
			return nil, fmt.Errorf("column %s.%s not found", table, c.Name)
		})
	}

	stmts := make([]string, 0, 2)
	prefix := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s ", quote(table), quote(c.Name))
	if c.NotNull {
		stmts = append(stmts, prefix+"SET NOT NULL")
	} else {
		stmts = append(stmts, prefix+"DROP NOT NULL")
	}
	if c.Default != "" {
		stmts = append(stmts, prefix+"SET DEFAULT "+c.Default)
	} else {
		stmts = append(stmts, prefix+"DROP DEFAULT")
	}
	for _, sql := range stmts {
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("alter column %s.%s: %w", table, c.Name, err)
		}
	}
	return nil
}

// rebuildSQLiteTable recreates table with edited column definitions, copying
// every row and restoring its explicit indexes. Foreign key enforcement must be
// off, otherwise dropping the old table would cascade into child tables.
func rebuildSQLiteTable(tx *gorm.DB, table string, edit func(defs []string) ([]string, error)) error {
	var fkEnabled int
	if err := tx.Raw("PRAGMA foreign_keys").Scan(&fkEnabled).Error; err != nil {
		return fmt.Errorf("read foreign_keys pragma: %w", err)
	}
	if fkEnabled != 0 {
		return fmt.Errorf("rebuild %s: foreign keys must be disabled", table)
	}

	var createSQL string
	if err := tx.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&createSQL).Error; err != nil {
		return fmt.Errorf("read definition of %s: %w", table, err)
	}
	open, closing := strings.Index(createSQL, "("), strings.LastIndex(createSQL, ")")
	if open < 0 || closing <= open {
		return fmt.Errorf("table %s not found", table)
	}
	indexes, err := queryStrings(tx, "SELECT sql FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL", table)
	if err != nil {
		return fmt.Errorf("read indexes of %s: %w", table, err)
	}

	defs, err := edit(splitDefinitions(createSQL[open+1 : closing]))
	if err != nil {
		return err
	}

	tmp := table + "__rebuild"
	stmts := []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", quote(tmp), strings.Join(defs, ", ")),
		fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", quote(tmp), quote(table)),
		fmt.Sprintf("DROP TABLE %s", quote(table)),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quote(tmp), quote(table)),
	}
	stmts = append(stmts, indexes...)
	for _, sql := range stmts {
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("rebuild %s: %w", table, err)
		}
	}
	return nil
}

// splitDefinitions splits the body of a CREATE TABLE on top-level commas.
func splitDefinitions(body string) []string {
	var (
		defs    []string
		depth   int
		inQuote rune
		start   int
	)
	for i, r := range body {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			inQuote = r
		case r == '[':
			inQuote = ']'
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			defs = append(defs, strings.TrimSpace(body[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(body[start:]); last != "" {
		defs = append(defs, last)
	}
	return defs
}

// definitionName returns the column name a definition starts with.
func definitionName(def string) string {
	if def == "" {
		return ""
	}
	switch def[0] {
	case '"', '`', '\'':
		if end := strings.IndexByte(def[1:], def[0]); end >= 0 {
			return def[1 : end+1]
		}
	case '[':
		if end := strings.IndexByte(def, ']'); end >= 0 {
			return def[1:end]
		}
	}
	if sp := strings.IndexAny(def, " \t\n"); sp >= 0 {
		return def[:sp]
	}
	return def
}

func queryStrings(tx *gorm.DB, sql string, args ...interface{}) ([]string, error) {
	rows, err := tx.Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
