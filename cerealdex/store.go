package cerealdex

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"

	"github.com/cerealdex/cerealdex/cerealdex/filter"
	"github.com/cerealdex/cerealdex/cerealdex/storage"
	"github.com/cerealdex/cerealdex/cerealdex/storage/sqlbuilder"
)

// Store is an open cereal catalog
type Store struct {
	adapter storage.Adapter
	db      *sql.DB
	opts    Options
	log     *slog.Logger
	version string
}

// Create creates the catalog tables and returns the open store
func Create(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	opts = opts.withDefaults()

	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}

	if err := adapter.CreateStore(ctx, db); err != nil {
		db.Close()
		return nil, Wrap(ErrSQL, "create store", err)
	}

	opts.Logger.Info("catalog created", "store", adapter.StoreID(), "backend", adapter.Backend())
	return newStore(adapter, db, opts, storage.SchemaVersion), nil
}

// Open opens an existing catalog
func Open(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	opts = opts.withDefaults()

	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}

	version, err := adapter.OpenStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, Wrap(ErrSQL, "open store", err)
	}
	if version != storage.SchemaVersion {
		db.Close()
		return nil, New(ErrSQL, "unsupported schema version "+version)
	}

	return newStore(adapter, db, opts, version), nil
}

func newStore(adapter storage.Adapter, db *sql.DB, opts Options, version string) *Store {
	return &Store{
		adapter: adapter,
		db:      db,
		opts:    opts,
		log:     opts.Logger.With("store", adapter.StoreID()),
		version: version,
	}
}

// Close closes the store
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return Wrap(ErrIO, "close database", err)
		}
	}
	return s.adapter.Close()
}

// Registry returns the column registry used for coercion and filtering
func (s *Store) Registry() *filter.Registry { return s.opts.Registry }

// Version returns the schema version stamped in the store
func (s *Store) Version() string { return s.version }

// Optimize runs backend maintenance
func (s *Store) Optimize(ctx context.Context) error {
	if err := s.adapter.Optimize(ctx, s.db); err != nil {
		return Wrap(ErrSQL, "optimize", err)
	}
	return nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return Wrap(ErrIO, "ping", err)
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// All returns every cereal ordered by id
func (s *Store) All(ctx context.Context) ([]Cereal, error) {
	return s.selectCereals(ctx, s.db)
}

func (s *Store) selectCereals(ctx context.Context, q queryer) ([]Cereal, error) {
	rows, err := q.QueryContext(ctx, s.adapter.SQL().SelectCereals)
	if err != nil {
		return nil, Wrap(ErrSQL, "select cereals", err)
	}
	defer rows.Close()

	out := make([]Cereal, 0)
	for rows.Next() {
		var c Cereal
		if err := rows.Scan(c.scanDest(storage.CerealColumns)...); err != nil {
			return nil, Wrap(ErrSQL, "scan cereal", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, Wrap(ErrSQL, "iterate cereals", err)
	}
	return out, nil
}

// ByID returns one cereal
func (s *Store) ByID(ctx context.Context, id int64) (Cereal, error) {
	var c Cereal
	err := s.db.QueryRowContext(ctx, s.adapter.SQL().SelectCerealByID, id).Scan(c.scanDest(storage.CerealColumns)...)
	if errors.Is(err, sql.ErrNoRows) {
		return Cereal{}, NotFoundError("cereal", id)
	}
	if err != nil {
		return Cereal{}, Wrap(ErrSQL, "get cereal", err)
	}
	return c, nil
}

// CerealFromFields coerces raw column values into a Cereal. Column names
// may be aliases. Every column except id is required and id is rejected.
func CerealFromFields(reg *filter.Registry, fields map[string]string) (Cereal, error) {
	vals, err := coerceFields(reg, fields)
	if err != nil {
		return Cereal{}, err
	}
	var c Cereal
	for _, col := range storage.CerealColumns {
		v, ok := vals[col]
		if !ok {
			return Cereal{}, InvalidInputError(col, "missing column")
		}
		c.Set(col, v)
	}
	return c, nil
}

// coerceFields resolves names and coerces values, keyed by canonical column
func coerceFields(reg *filter.Registry, fields map[string]string) (map[string]filter.Value, error) {
	// Sorted so the reported error does not depend on map order
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(map[string]filter.Value, len(fields))
	for _, name := range names {
		spec, err := reg.Lookup(name)
		if err != nil {
			return nil, err
		}
		if spec.Name == "id" {
			return nil, InvalidInputError("id", "id is assigned by the store and cannot be set")
		}
		if _, dup := out[spec.Name]; dup {
			return nil, InvalidInputError(spec.Name, "column given more than once")
		}
		v, err := filter.Coerce(spec, fields[name])
		if err != nil {
			return nil, err
		}
		out[spec.Name] = v
	}
	return out, nil
}

type execQueryer interface {
	queryer
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertCereal(ctx context.Context, q execQueryer, c Cereal) (int64, error) {
	b := sqlbuilder.New(s.adapter.PlaceholderStyle())
	stmt := storage.BuildInsert(b, "cereal", storage.CerealColumns, c.Values(storage.CerealColumns))
	var id int64
	if err := q.QueryRowContext(ctx, stmt, b.Args()...).Scan(&id); err != nil {
		return 0, Wrap(ErrSQL, "insert cereal", err)
	}
	return id, nil
}

// Add stores a new cereal from raw column values and returns it with its id
func (s *Store) Add(ctx context.Context, fields map[string]string) (Cereal, error) {
	c, err := CerealFromFields(s.opts.Registry, fields)
	if err != nil {
		return Cereal{}, err
	}
	id, err := s.insertCereal(ctx, s.db, c)
	if err != nil {
		return Cereal{}, err
	}
	c.ID = id
	s.log.Info("cereal added", "cereal_id", id, "name", c.Name)
	return c, nil
}

// BulkAdd stores every row that coerces cleanly in one transaction.
// Rows that fail coercion are skipped and reported.
func (s *Store) BulkAdd(ctx context.Context, rows []map[string]string) (BulkResult, error) {
	return s.bulkAdd(ctx, rows, nil)
}

// bulkAdd also attaches pictures[i] to row i when it is non-empty
func (s *Store) bulkAdd(ctx context.Context, rows []map[string]string, pictures []string) (BulkResult, error) {
	res := BulkResult{IDs: make([]int64, 0, len(rows))}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, Wrap(ErrSQL, "begin transaction", err)
	}
	defer tx.Rollback()

	sqlt := s.adapter.SQL()
	for i, fields := range rows {
		c, err := CerealFromFields(s.opts.Registry, fields)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: i + 1, Reason: err.Error()})
			s.log.Debug("bulk row skipped", "row", i+1, "err", err)
			continue
		}
		id, err := s.insertCereal(ctx, tx, c)
		if err != nil {
			return BulkResult{}, err
		}
		if i < len(pictures) && pictures[i] != "" {
			if _, err := tx.ExecContext(ctx, sqlt.InsertPicture, id, pictures[i]); err != nil {
				return BulkResult{}, Wrap(ErrSQL, "insert picture", err)
			}
		}
		res.IDs = append(res.IDs, id)
	}

	if err := tx.Commit(); err != nil {
		return BulkResult{}, Wrap(ErrSQL, "commit", err)
	}
	res.Added = len(res.IDs)
	s.log.Info("bulk add", "added", res.Added, "skipped", len(res.Skipped))
	return res, nil
}

// Update changes the given columns of one cereal. The id cannot change.
func (s *Store) Update(ctx context.Context, id int64, fields map[string]string) (Cereal, error) {
	if len(fields) == 0 {
		return Cereal{}, InvalidInputError("", "no columns to update")
	}
	vals, err := coerceFields(s.opts.Registry, fields)
	if err != nil {
		return Cereal{}, err
	}

	columns := make([]string, 0, len(vals))
	for _, col := range storage.CerealColumns {
		if _, ok := vals[col]; ok {
			columns = append(columns, col)
		}
	}
	values := make([]any, len(columns))
	for i, col := range columns {
		values[i] = vals[col].Any()
	}

	b := sqlbuilder.New(s.adapter.PlaceholderStyle())
	stmt := storage.BuildUpdate(b, "cereal", columns, values, id)
	res, err := s.db.ExecContext(ctx, stmt, b.Args()...)
	if err != nil {
		return Cereal{}, Wrap(ErrSQL, "update cereal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Cereal{}, Wrap(ErrSQL, "update cereal", err)
	}
	if n == 0 {
		return Cereal{}, NotFoundError("cereal", id)
	}
	s.log.Info("cereal updated", "cereal_id", id, "columns", columns)
	return s.ByID(ctx, id)
}

// Delete removes a cereal and its picture. It reports whether a row existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	pic, picErr := s.Picture(ctx, id)

	res, err := s.db.ExecContext(ctx, s.adapter.SQL().DeleteCereal, id)
	if err != nil {
		return false, Wrap(ErrSQL, "delete cereal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, Wrap(ErrSQL, "delete cereal", err)
	}
	if n == 0 {
		return false, nil
	}
	if picErr == nil {
		s.removePictureFile(pic.Path)
	}
	s.log.Info("cereal deleted", "cereal_id", id)
	return true, nil
}

func (s *Store) exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.adapter.SQL().CerealExists, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, Wrap(ErrSQL, "check cereal", err)
	}
	return true, nil
}
