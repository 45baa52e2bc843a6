package cache

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect adapts the generated statements to a specific relational backend:
// identifier quoting, the expression that turns created_at into unix seconds,
// and the bind-variable style expected by the driver.
type Dialect struct {
	name           string
	quote          string
	epochFormat    string // fmt verb receives the quoted created_at column
	numberedParams bool   // rewrite ? placeholders to $1..$n
}

var (
	// DialectSQLite addresses an attached database (usually "main").
	DialectSQLite = Dialect{
		name:        "sqlite",
		quote:       `"`,
		epochFormat: "CAST(strftime('%%s', %s) AS INTEGER)",
	}

	// DialectMySQL addresses a database on the connected server.
	DialectMySQL = Dialect{
		name:        "mysql",
		quote:       "`",
		epochFormat: "UNIX_TIMESTAMP(%s)",
	}

	// DialectPostgres addresses a schema in the connected database.
	DialectPostgres = Dialect{
		name:           "postgres",
		quote:          `"`,
		epochFormat:    "CAST(EXTRACT(EPOCH FROM %s) AS BIGINT)",
		numberedParams: true,
	}
)

// DialectFor resolves a dialect from a driver name as used by the database
// configuration. The second return value reports whether the driver is known.
func DialectFor(driver string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, true
	case "mysql":
		return DialectMySQL, true
	case "postgres", "postgresql":
		return DialectPostgres, true
	default:
		return Dialect{}, false
	}
}

// Name reports the driver family this dialect targets.
func (d Dialect) Name() string {
	return d.name
}

// identifierPattern accepts the conservative subset shared by all three
// backends. Configuration values are operator supplied, but the composed
// identifier still ends up inside statement text, so anything outside this
// set is rejected at construction.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is usable as a database or table
// identifier.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// QuoteIdentifier wraps name in the dialect's identifier quotes, doubling any
// embedded quote character.
func (d Dialect) QuoteIdentifier(name string) string {
	quote := d.quote
	if quote == "" {
		quote = `"`
	}
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// QualifyTable composes the two-identifier table address used by every
// generated statement.
func (d Dialect) QualifyTable(database, table string) string {
	return d.QuoteIdentifier(database) + "." + d.QuoteIdentifier(table)
}

// EpochExpr renders the SQL expression computing unix seconds from the given
// timestamp column.
func (d Dialect) EpochExpr(column string) string {
	format := d.epochFormat
	if format == "" {
		format = DialectSQLite.epochFormat
	}
	return fmt.Sprintf(format, column)
}

// Bind rewrites ? placeholders into the dialect's bind-variable style. The
// statements generated here never contain literal question marks outside of
// parameter positions.
func (d Dialect) Bind(query string) string {
	if !d.numberedParams {
		return query
	}

	var builder strings.Builder
	builder.Grow(len(query) + 8)

	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			builder.WriteByte(query[i])
			continue
		}
		n++
		fmt.Fprintf(&builder, "$%d", n)
	}
	return builder.String()
}
