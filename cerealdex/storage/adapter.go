package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cerealdex/cerealdex/cerealdex/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	StoreID() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	// CreateStore creates the catalog tables and stamps the meta table
	CreateStore(ctx context.Context, db *sql.DB) error
	// OpenStore verifies the meta stamp and returns the stored schema version
	OpenStore(ctx context.Context, db *sql.DB) (version string, err error)
	Optimize(ctx context.Context, db *sql.DB) error

	SQL() SQL
}

// CerealColumns is the column order used by every cereal statement except
// the id, which is always selected first.
var CerealColumns = []string{
	"name", "mfr", "type", "calories", "protein", "fat", "sodium", "fiber",
	"carbo", "sugars", "potass", "vitamins", "shelf", "weight", "cups", "rating",
}

const (
	MetaMagicKey   = "cerealdex_magic"
	MetaMagic      = "cerealdex"
	MetaVersionKey = "cerealdex_version"
	SchemaVersion  = "1"
)

// SQL holds prepared SQL templates for common operations
type SQL struct {
	GetMeta string
	SetMeta string

	SelectCereals    string
	SelectCerealByID string
	CerealExists     string
	DeleteCereal     string

	GetPictureByCereal string
	InsertPicture      string
	UpdatePicture      string

	InsertUser     string
	GetUserByName  string
	CountUsers     string
	UpdateUserHash string
}

// BuildInsert renders a single-row INSERT that returns the generated id.
// Both backends support RETURNING; only the placeholders differ.
func BuildInsert(b *sqlbuilder.Builder, table string, columns []string, values []any) string {
	return "INSERT INTO " + table + "(" + strings.Join(columns, ", ") + ") VALUES(" + b.List(values) + ") RETURNING id"
}

// BuildUpdate renders an UPDATE of the given columns of one row by id
func BuildUpdate(b *sqlbuilder.Builder, table string, columns []string, values []any, id int64) string {
	set := b.Assignments(columns, values)
	return "UPDATE " + table + " SET " + set + " WHERE id = " + b.Arg(id)
}
