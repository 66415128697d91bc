package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BusinessRepository struct {
	pool *pgxpool.Pool
}

func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

const businessColumns = `id, user_id, company_name, industry, annual_revenue, employee_count,
	contact_phone, status, street, city, postal_code, country, created_at, updated_at`

func (r *BusinessRepository) CreateEmpty(ctx context.Context, userID string) (*domain.Business, error) {
	query := `
		INSERT INTO businesses (user_id, company_name, industry, status)
		VALUES ($1, '', '', 'pending')
		RETURNING ` + businessColumns

	b, err := scanBusiness(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	return b, nil
}

func (r *BusinessRepository) FindByUserID(ctx context.Context, userID string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE user_id = $1`
	return scanBusiness(r.pool.QueryRow(ctx, query, userID))
}

func (r *BusinessRepository) UpdateProfile(ctx context.Context, userID string, upd repository.ProfileUpdate) error {
	query := `
		UPDATE businesses
		SET    company_name   = COALESCE($2, company_name),
		       industry       = COALESCE($3, industry),
		       annual_revenue = COALESCE($4, annual_revenue),
		       employee_count = COALESCE($5, employee_count),
		       contact_phone  = COALESCE($6, contact_phone),
		       street         = COALESCE($7, street),
		       city           = COALESCE($8, city),
		       postal_code    = COALESCE($9, postal_code),
		       country        = COALESCE($10, country),
		       updated_at     = NOW()
		WHERE  user_id = $1`

	var street, city, postal, country *string
	if upd.Address != nil {
		street, city = &upd.Address.Street, &upd.Address.City
		postal, country = &upd.Address.PostalCode, &upd.Address.Country
	}

	tag, err := r.pool.Exec(ctx, query, userID,
		upd.CompanyName, upd.Industry, upd.AnnualRevenue, upd.EmployeeCount,
		upd.ContactPhone, street, city, postal, country,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBusinessNotFound
	}
	return nil
}

func (r *BusinessRepository) List(ctx context.Context, filter domain.BusinessFilter) ([]domain.BusinessWithTotals, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	n := 1

	if filter.Status != "" {
		where += " AND b.status = $" + strconv.Itoa(n)
		args = append(args, filter.Status)
		n++
	}
	if filter.Search != "" {
		where += " AND b.company_name ILIKE $" + strconv.Itoa(n)
		args = append(args, "%"+filter.Search+"%")
		n++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM businesses b "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count businesses: %w", err)
	}

	query := `
		SELECT b.id, b.user_id, b.company_name, b.industry, b.annual_revenue,
		       b.employee_count, b.contact_phone, b.status, b.street, b.city,
		       b.postal_code, b.country, b.created_at, b.updated_at,
		       u.email,
		       COUNT(i.id) AS total_invoices,
		       COALESCE(SUM(CASE WHEN i.status = 'funded' THEN i.amount ELSE 0 END), 0) AS total_funded
		FROM businesses b
		JOIN users u ON b.user_id = u.id
		LEFT JOIN invoices i ON b.id = i.business_id AND i.deleted_at IS NULL
		` + where + `
		GROUP BY b.id, u.email
		ORDER BY b.created_at DESC
		LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	var out []domain.BusinessWithTotals
	for rows.Next() {
		var bt domain.BusinessWithTotals
		var phone, street, city, postal, country *string
		err := rows.Scan(
			&bt.ID, &bt.UserID, &bt.CompanyName, &bt.Industry, &bt.AnnualRevenue,
			&bt.EmployeeCount, &phone, &bt.Status, &street, &city, &postal, &country,
			&bt.CreatedAt, &bt.UpdatedAt,
			&bt.Email, &bt.TotalInvoices, &bt.TotalFunded,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan business row: %w", err)
		}
		if phone != nil {
			bt.ContactPhone = *phone
		}
		bt.Address = assembleAddress(street, city, postal, country)
		out = append(out, bt)
	}
	return out, total, rows.Err()
}

func (r *BusinessRepository) UpdateStatus(ctx context.Context, id string, status domain.BusinessStatus) (string, error) {
	var userID string
	err := r.pool.QueryRow(ctx,
		`UPDATE businesses SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING user_id`,
		status, id,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrBusinessNotFound
		}
		return "", fmt.Errorf("update business status: %w", err)
	}
	return userID, nil
}

func (r *BusinessRepository) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	var s domain.DashboardSummary

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM businesses),
			(SELECT COUNT(*) FROM businesses WHERE status = 'pending'),
			(SELECT COUNT(*) FROM invoices WHERE deleted_at IS NULL),
			(SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE status = 'funded' AND deleted_at IS NULL)`,
	).Scan(&s.TotalBusinesses, &s.PendingBusinesses, &s.TotalInvoices, &s.TotalFunded)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.invoice_number, i.customer_name, i.amount, i.status, b.company_name, i.created_at
		FROM invoices i
		JOIN businesses b ON i.business_id = b.id
		WHERE i.deleted_at IS NULL
		ORDER BY i.created_at DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("recent invoices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ri domain.RecentInvoice
		err := rows.Scan(&ri.ID, &ri.InvoiceNumber, &ri.CustomerName, &ri.Amount, &ri.Status, &ri.CompanyName, &ri.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan recent invoice: %w", err)
		}
		s.RecentInvoices = append(s.RecentInvoices, ri)
	}
	return &s, rows.Err()
}

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var b domain.Business
	var phone, street, city, postal, country *string
	err := row.Scan(
		&b.ID, &b.UserID, &b.CompanyName, &b.Industry, &b.AnnualRevenue,
		&b.EmployeeCount, &phone, &b.Status, &street, &city, &postal, &country,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("scan business: %w", err)
	}
	if phone != nil {
		b.ContactPhone = *phone
	}
	b.Address = assembleAddress(street, city, postal, country)
	return &b, nil
}

func assembleAddress(street, city, postal, country *string) *domain.Address {
	if street == nil && city == nil && postal == nil && country == nil {
		return nil
	}
	addr := &domain.Address{}
	if street != nil {
		addr.Street = *street
	}
	if city != nil {
		addr.City = *city
	}
	if postal != nil {
		addr.PostalCode = *postal
	}
	if country != nil {
		addr.Country = *country
	}
	return addr
}
