// Package xdb adapts database/sql to squirrel builders so the store can run
// the same queries against postgres (pgx) and sqlite (modernc).
package xdb

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Pool interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Execx(ctx context.Context, query sq.Sqlizer) (sql.Result, error)
	Getx(ctx context.Context, dest any, query sq.Sqlizer) error
	Selectx(ctx context.Context, dest any, query sq.Sqlizer) error
	InTx(ctx context.Context, fn func(tx Pool) error) error
	Builder() sq.StatementBuilderType
	Close() error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type pool struct {
	db      *sql.DB
	q       querier
	builder sq.StatementBuilderType
}

// Open connects to driver ("postgres" or "sqlite") and pings it.
func Open(ctx context.Context, driver, dsn string) (Pool, error) {
	var (
		sqlDriver   string
		placeholder sq.PlaceholderFormat
	)
	switch driver {
	case DriverPostgres:
		sqlDriver, placeholder = "pgx", sq.Dollar
	case DriverSQLite:
		sqlDriver, placeholder = "sqlite", sq.Question
	default:
		return nil, fmt.Errorf("xdb: unsupported driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	return &pool{
		db:      db,
		q:       db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}, nil
}

func (p *pool) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.q.ExecContext(ctx, query, args...)
}

func (p *pool) Execx(ctx context.Context, query sq.Sqlizer) (sql.Result, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.q.ExecContext(ctx, sqlStr, args...)
}

func (p *pool) Getx(ctx context.Context, dest any, query sq.Sqlizer) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return sqlscan.Get(ctx, p.q, dest, sqlStr, args...)
}

func (p *pool) Selectx(ctx context.Context, dest any, query sq.Sqlizer) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return sqlscan.Select(ctx, p.q, dest, sqlStr, args...)
}

// InTx runs fn inside one transaction. A pool that is already bound to a
// transaction runs fn directly.
func (p *pool) InTx(ctx context.Context, fn func(tx Pool) error) (err error) {
	if _, ok := p.q.(*sql.Tx); ok {
		return fn(p)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&pool{db: p.db, q: tx, builder: p.builder}); err != nil {
		return err
	}

	return tx.Commit()
}

func (p *pool) Builder() sq.StatementBuilderType {
	return p.builder
}

func (p *pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
