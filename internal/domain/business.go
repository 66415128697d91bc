package domain

import (
	"errors"
	"time"
)

var ErrBusinessNotFound = errors.New("business profile not found")

// BusinessStatus tracks admin review of a business account.
type BusinessStatus string

const (
	BusinessPending   BusinessStatus = "pending"
	BusinessApproved  BusinessStatus = "approved"
	BusinessRejected  BusinessStatus = "rejected"
	BusinessSuspended BusinessStatus = "suspended"
)

type Business struct {
	ID            string
	UserID        string
	CompanyName   string
	Industry      string
	AnnualRevenue float64
	EmployeeCount int
	ContactPhone  string
	Status        BusinessStatus
	Address       *Address
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// BusinessWithTotals is the admin list projection: a business joined with the
// owner's email and invoice aggregates.
type BusinessWithTotals struct {
	Business
	Email         string
	TotalInvoices int
	TotalFunded   float64
}

// BusinessFilter narrows admin business listings.
type BusinessFilter struct {
	Status BusinessStatus
	Search string
	Page   int
	Limit  int
}

// DashboardSummary aggregates platform-wide counts for the admin dashboard.
type DashboardSummary struct {
	TotalBusinesses   int
	PendingBusinesses int
	TotalInvoices     int
	TotalFunded       float64
	RecentInvoices    []RecentInvoice
}

type RecentInvoice struct {
	ID            string
	InvoiceNumber string
	CustomerName  string
	Amount        float64
	Status        InvoiceStatus
	CompanyName   string
	CreatedAt     time.Time
}
