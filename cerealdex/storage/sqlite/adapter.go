package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cerealdex/cerealdex/cerealdex/storage"
	"github.com/cerealdex/cerealdex/cerealdex/storage/sqlbuilder"
)

// DefaultDriver is the pure-Go modernc.org/sqlite driver name. The cgo
// mattn/go-sqlite3 driver registers as "sqlite3".
const DefaultDriver = "sqlite"

type Adapter struct {
	Path       string
	DriverName string
}

func New(path string) *Adapter {
	return &Adapter{Path: path, DriverName: DefaultDriver}
}

func NewWithDriver(path, driver string) *Adapter {
	if driver == "" {
		driver = DefaultDriver
	}
	return &Adapter{Path: path, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend {
	return storage.BackendSQLite
}

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle {
	return sqlbuilder.PlaceholderQuestion
}

func (a *Adapter) StoreID() string {
	return a.Path
}

// dsn appends the pragmas each driver understands
func (a *Adapter) dsn() string {
	params := "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if a.DriverName == "sqlite3" {
		params = "_busy_timeout=5000&_foreign_keys=on"
	}
	if strings.Contains(a.Path, "?") {
		return a.Path + "&" + params
	}
	return a.Path + "?" + params
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(a.DriverName, a.dsn())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	// foreign_keys is a per-connection pragma; a single connection keeps
	// ON DELETE CASCADE reliable and serializes writers.
	db.SetMaxOpenConns(1)
	return db, nil
}

func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) SQL() storage.SQL {
	return SQLTemplates
}

func (a *Adapter) CreateStore(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ddlBase); err != nil {
		return err
	}
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode=WAL;")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous=NORMAL;")
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys=ON;")

	sqlt := a.SQL()
	if _, err := db.ExecContext(ctx, sqlt.SetMeta, storage.MetaMagicKey, storage.MetaMagic); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, sqlt.SetMeta, storage.MetaVersionKey, storage.SchemaVersion); err != nil {
		return err
	}
	return nil
}

func (a *Adapter) OpenStore(ctx context.Context, db *sql.DB) (string, error) {
	sqlt := a.SQL()
	var magic string
	if err := db.QueryRowContext(ctx, sqlt.GetMeta, storage.MetaMagicKey).Scan(&magic); err != nil {
		return "", err
	}
	if magic != storage.MetaMagic {
		return "", fmt.Errorf("not a cerealdex db")
	}
	var version string
	if err := db.QueryRowContext(ctx, sqlt.GetMeta, storage.MetaVersionKey).Scan(&version); err != nil {
		return "", err
	}
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys=ON;")
	return version, nil
}

func (a *Adapter) Optimize(ctx context.Context, db *sql.DB) error {
	_, _ = db.ExecContext(ctx, "ANALYZE")
	_, _ = db.ExecContext(ctx, "VACUUM")
	return nil
}
