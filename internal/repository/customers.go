package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/engagesphere/api/internal/entity"
)

// CustomersRepository supplies the customer directory in a stable order.
type CustomersRepository interface {
	ListAll(ctx context.Context) ([]entity.Customer, error)
}

type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// MemoryCustomersRepository serves a fixed snapshot, typically loaded from a seed file.
type MemoryCustomersRepository struct {
	customers []entity.Customer
}

// NewMemoryCustomersRepository copies customers into a new repository.
func NewMemoryCustomersRepository(customers []entity.Customer) *MemoryCustomersRepository {
	return &MemoryCustomersRepository{customers: slices.Clone(customers)}
}

// ListAll returns a copy of the snapshot so callers cannot disturb each other.
func (r *MemoryCustomersRepository) ListAll(ctx context.Context) ([]entity.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(r.customers), nil
}

// PGXCustomersRepository reads the customers table:
//
//	id BIGINT PRIMARY KEY, name TEXT, employees INT, contact_info JSONB NULL,
//	size TEXT, industry TEXT, address JSONB NULL
type PGXCustomersRepository struct {
	pool pgxPool
}

// NewPGXCustomersRepository wires a pgx backed repository.
func NewPGXCustomersRepository(pool *pgxpool.Pool) *PGXCustomersRepository {
	return &PGXCustomersRepository{pool: pool}
}

const listCustomersSQL = `
        SELECT id, name, employees, contact_info, size, industry, address
        FROM customers
        ORDER BY id ASC
    `

// ListAll loads every customer ordered by id.
func (r *PGXCustomersRepository) ListAll(ctx context.Context) ([]entity.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

func scanCustomers(rows pgx.Rows) ([]entity.Customer, error) {
	customers := []entity.Customer{}
	for rows.Next() {
		var (
			c           entity.Customer
			size        string
			industry    string
			contactJSON []byte
			addressJSON []byte
		)

		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Employees,
			&contactJSON,
			&size,
			&industry,
			&addressJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}

		var ok bool
		if c.Size, ok = entity.ParseSize(size); !ok {
			return nil, fmt.Errorf("customer %d: unsupported size %q", c.ID, size)
		}
		if c.Industry, ok = entity.ParseIndustry(industry); !ok {
			return nil, fmt.Errorf("customer %d: unsupported industry %q", c.ID, industry)
		}
		if c.ContactInfo, err = decodeNullable[entity.ContactInfo](contactJSON); err != nil {
			return nil, fmt.Errorf("customer %d: decode contact_info: %w", c.ID, err)
		}
		if c.Address, err = decodeNullable[entity.Address](addressJSON); err != nil {
			return nil, fmt.Errorf("customer %d: decode address: %w", c.ID, err)
		}

		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func decodeNullable[T any](raw []byte) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return &value, nil
}

var customerColumns = []string{"id", "name", "employees", "contact_info", "size", "industry", "address"}

// ReplaceAll swaps the table contents for customers inside one transaction and returns the
// number of rows written.
func (r *PGXCustomersRepository) ReplaceAll(ctx context.Context, customers []entity.Customer) (int64, error) {
	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		contact, err := encodeNullable(c.ContactInfo)
		if err != nil {
			return 0, fmt.Errorf("customer %d: encode contact_info: %w", c.ID, err)
		}
		address, err := encodeNullable(c.Address)
		if err != nil {
			return 0, fmt.Errorf("customer %d: encode address: %w", c.ID, err)
		}
		rows = append(rows, []any{c.ID, c.Name, c.Employees, contact, string(c.Size), string(c.Industry), address})
	}

	var written int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM customers"); err != nil {
			return fmt.Errorf("clear customers: %w", err)
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"customers"}, customerColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy customers: %w", err)
		}
		written = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replace customers: %w", err)
	}
	return written, nil
}

func encodeNullable[T any](value *T) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
