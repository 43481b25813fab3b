// Package postgres introspects PostgreSQL schemas for autoupdate runs.
package postgres

import (
	"context"
	"fmt"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Adapter lists the tables of one PostgreSQL schema.
type Adapter struct {
	dsn    string
	schema string // pg schema to introspect, defaults to "public"
	pool   *pgxpool.Pool
}

// Compile-time interface check
var _ introspect.Adapter = (*Adapter)(nil)

// New creates an adapter for a connection string. An empty schema means
// public.
func New(dsn, schema string) *Adapter {
	if schema == "" {
		schema = "public"
	}
	return &Adapter{dsn: dsn, schema: schema}
}

// ID identifies the adapter kind.
func (a *Adapter) ID() string {
	return "postgres"
}

// Connect opens the connection pool and verifies it. Tables connects
// lazily, so calling Connect first is optional.
func (a *Adapter) Connect(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(a.dsn)
	if err != nil {
		return errors.NewConfigError("postgres", "parsing connection string", err)
	}
	// Introspection reads catalog tables; one connection is plenty.
	cfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("pinging PostgreSQL: %w", err)
	}

	a.pool = pool
	return nil
}

// Close releases the connection pool.
func (a *Adapter) Close() error {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return nil
}

// Tables lists the schema's tables, columns in ordinal order, with primary
// key columns marked.
func (a *Adapter) Tables(ctx context.Context) ([]introspect.Table, error) {
	if a.pool == nil {
		if err := a.Connect(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.IntrospectTimeout)
	defer cancel()

	names, err := a.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	tables := make([]introspect.Table, len(names))
	index := make(map[string]*introspect.Table, len(names))
	for i, name := range names {
		tables[i] = introspect.Table{Identifier: name, Namespace: a.schema}
		index[name] = &tables[i]
	}

	if err := a.listColumns(ctx, names, index); err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	if err := a.markPrimaryKeys(ctx, names, index); err != nil {
		return nil, fmt.Errorf("listing primary keys: %w", err)
	}

	return tables, nil
}

// listTables names all user tables of the schema, sorted.
func (a *Adapter) listTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		  AND c.relkind = 'r'
		ORDER BY c.relname`

	rows, err := a.pool.Query(ctx, query, a.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// listColumns fetches the columns of every table in ordinal order.
func (a *Adapter) listColumns(ctx context.Context, names []string, index map[string]*introspect.Table) error {
	query := `
		SELECT
			table_name,
			column_name,
			data_type,
			is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = ANY($2)
		ORDER BY table_name, ordinal_position`

	rows, err := a.pool.Query(ctx, query, a.schema, names)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, colName, dataType, nullable string
		if err := rows.Scan(&tableName, &colName, &dataType, &nullable); err != nil {
			return err
		}

		t, ok := index[tableName]
		if !ok {
			continue
		}
		t.Columns = append(t.Columns, introspect.Column{
			Name:     colName,
			Type:     dataType,
			Nullable: nullable == "YES",
		})
	}
	return rows.Err()
}

// markPrimaryKeys flags the primary key columns of every table.
func (a *Adapter) markPrimaryKeys(ctx context.Context, names []string, index map[string]*introspect.Table) error {
	query := `
		SELECT
			tc.table_name,
			kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		  AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = ANY($2)
		ORDER BY tc.table_name, kcu.ordinal_position`

	rows, err := a.pool.Query(ctx, query, a.schema, names)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, colName string
		if err := rows.Scan(&tableName, &colName); err != nil {
			return err
		}

		t, ok := index[tableName]
		if !ok {
			continue
		}
		for i := range t.Columns {
			if t.Columns[i].Name == colName {
				t.Columns[i].PrimaryKey = true
				break
			}
		}
	}
	return rows.Err()
}
