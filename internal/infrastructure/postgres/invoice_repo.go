package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `id, business_id, invoice_number, customer_name, amount, currency,
	status, issue_date, due_date, description, created_at, updated_at, deleted_at`

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	query := `
		INSERT INTO invoices (
			business_id, invoice_number, customer_name, amount, currency,
			status, issue_date, due_date, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + invoiceColumns

	row := r.pool.QueryRow(ctx, query,
		inv.BusinessID, inv.InvoiceNumber, inv.CustomerName, inv.Amount,
		inv.Currency, inv.Status, inv.IssueDate, inv.DueDate, inv.Description,
	)
	created, err := scanInvoice(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateInvoice
		}
		return nil, err
	}
	return created, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id, businessID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1 AND business_id = $2 AND deleted_at IS NULL`
	return scanInvoice(r.pool.QueryRow(ctx, query, id, businessID))
}

func (r *InvoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error) {
	where := "WHERE business_id = $1 AND deleted_at IS NULL"
	args := []any{filter.BusinessID}
	n := 2

	if filter.Status != "" {
		where += " AND status = $" + strconv.Itoa(n)
		args = append(args, filter.Status)
		n++
	}
	if filter.Search != "" {
		where += " AND (invoice_number ILIKE $" + strconv.Itoa(n) + " OR customer_name ILIKE $" + strconv.Itoa(n) + ")"
		args = append(args, "%"+filter.Search+"%")
		n++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + where + `
		ORDER BY created_at DESC
		LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inv)
	}
	return out, total, rows.Err()
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	query := `
		UPDATE invoices
		SET    invoice_number = $3,
		       customer_name  = $4,
		       amount         = $5,
		       currency       = $6,
		       issue_date     = $7,
		       due_date       = $8,
		       description    = $9,
		       updated_at     = NOW()
		WHERE  id = $1 AND business_id = $2 AND deleted_at IS NULL
		RETURNING ` + invoiceColumns

	row := r.pool.QueryRow(ctx, query,
		inv.ID, inv.BusinessID, inv.InvoiceNumber, inv.CustomerName,
		inv.Amount, inv.Currency, inv.IssueDate, inv.DueDate, inv.Description,
	)
	updated, err := scanInvoice(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateInvoice
		}
		return nil, err
	}
	return updated, nil
}

func (r *InvoiceRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET    status = 'overdue', updated_at = NOW()
		WHERE  due_date < $1
		  AND  status IN ('pending', 'submitted', 'approved')
		  AND  deleted_at IS NULL`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID, &inv.BusinessID, &inv.InvoiceNumber, &inv.CustomerName,
		&inv.Amount, &inv.Currency, &inv.Status, &inv.IssueDate, &inv.DueDate,
		&inv.Description, &inv.CreatedAt, &inv.UpdatedAt, &inv.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return &inv, nil
}
