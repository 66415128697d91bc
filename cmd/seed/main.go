// seed inserts a demo admin, two business accounts, and a spread of invoices
// into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/invoiceb2b/financing-api/internal/infrastructure/postgres"
)

const seedPassword = "Password1!"

type businessSpec struct {
	email    string
	approved bool
	company  string
	industry string
	revenue  float64
	staff    int
}

type invoiceSpec struct {
	number   string
	customer string
	amount   float64
	currency string
	status   string
	dueIn    time.Duration
}

var businesses = []businessSpec{
	{"acme@test.local", true, "Acme Textiles Ltd", "Manufacturing", 2_400_000, 38},
	{"nordic@test.local", false, "Nordic Freight AS", "Logistics", 870_000, 12},
}

var invoices = []invoiceSpec{
	// A mix of statuses so every list filter has something to return.
	{"INV-1001", "Globex Corp", 12500, "USD", "pending", 30 * 24 * time.Hour},
	{"INV-1002", "Initech LLC", 8300, "USD", "submitted", 45 * 24 * time.Hour},
	{"INV-1003", "Umbrella GmbH", 21000, "EUR", "approved", 60 * 24 * time.Hour},
	{"INV-1004", "Stark Industries", 54000, "USD", "funded", 90 * 24 * time.Hour},
	{"INV-1005", "Wayne Enterprises", 17600, "USD", "paid", 15 * 24 * time.Hour},
	{"INV-1006", "Cyberdyne Systems", 9400, "USD", "rejected", 30 * 24 * time.Hour},

	// Past due and still unpaid, so the sweeper has something to flip.
	{"INV-1007", "Tyrell Corp", 6800, "USD", "pending", -10 * 24 * time.Hour},
	{"INV-1008", "Soylent Ltd", 4300, "GBP", "submitted", -3 * 24 * time.Hour},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	// Admin account
	var adminID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, is_approved)
		VALUES ($1, $2, 'admin', TRUE)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		"admin@test.local", string(hash),
	).Scan(&adminID)
	if err != nil {
		log.Fatalf("upsert admin: %v", err)
	}

	var invoiceCount int
	for _, spec := range businesses {
		var userID string
		err := pool.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, role, is_approved)
			VALUES ($1, $2, 'business', $3)
			ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			spec.email, string(hash), spec.approved,
		).Scan(&userID)
		if err != nil {
			log.Fatalf("upsert user %s: %v", spec.email, err)
		}

		status := "pending"
		if spec.approved {
			status = "approved"
		}

		var businessID string
		err = pool.QueryRow(ctx, `
			INSERT INTO businesses (user_id, company_name, industry, annual_revenue, employee_count, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			userID, spec.company, spec.industry, spec.revenue, spec.staff, status,
		).Scan(&businessID)
		if err != nil {
			log.Fatalf("upsert business %s: %v", spec.company, err)
		}

		// Invoices only for the approved business; the pending one should
		// look freshly registered.
		if !spec.approved {
			continue
		}

		now := time.Now()
		for _, inv := range invoices {
			tag, err := pool.Exec(ctx, `
				INSERT INTO invoices (
					business_id, invoice_number, customer_name, amount, currency,
					status, issue_date, due_date, description
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '')
				ON CONFLICT (business_id, invoice_number) DO NOTHING`,
				businessID, inv.number, inv.customer, inv.amount, inv.currency,
				inv.status, now.Add(-30*24*time.Hour), now.Add(inv.dueIn),
			)
			if err != nil {
				log.Fatalf("insert invoice %s: %v", inv.number, err)
			}
			invoiceCount += int(tag.RowsAffected())
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:            admin@test.local / %s\n", seedPassword)
	fmt.Printf("  Approved company: acme@test.local / %s\n", seedPassword)
	fmt.Printf("  Pending company:  nordic@test.local / %s (login answers 403 until approved)\n", seedPassword)
	fmt.Printf("  Invoices created: %d\n", invoiceCount)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  curl -s -X POST http://localhost:8080/api/auth/login \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Printf("    -d '{\"email\":\"acme@test.local\",\"password\":\"%s\"}'\n", seedPassword)
	fmt.Println()
	fmt.Println("  export JWT=eyJ...")
	fmt.Println("  curl -s http://localhost:8080/api/business/invoices -H \"Authorization: Bearer $JWT\"")
}
