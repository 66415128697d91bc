package domain

import (
	"errors"
	"time"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrDuplicateInvoice = errors.New("invoice with this number already exists")
	ErrInvoiceFunded    = errors.New("invoice has already been funded")
)

// InvoiceStatus is treated as an opaque enumeration; the only transition the
// API validates is that funded or paid invoices can no longer be edited.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoiceSubmitted InvoiceStatus = "submitted"
	InvoiceApproved  InvoiceStatus = "approved"
	InvoiceFunded    InvoiceStatus = "funded"
	InvoiceRejected  InvoiceStatus = "rejected"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
)

// Editable reports whether the invoice may still be modified by its business.
func (s InvoiceStatus) Editable() bool {
	return s != InvoiceFunded && s != InvoicePaid
}

type Invoice struct {
	ID            string
	BusinessID    string
	InvoiceNumber string
	CustomerName  string
	Amount        float64
	Currency      string
	Status        InvoiceStatus
	IssueDate     time.Time
	DueDate       time.Time
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// InvoiceFilter narrows invoice listings for one business.
type InvoiceFilter struct {
	BusinessID string
	Status     InvoiceStatus
	Search     string
	Page       int
	Limit      int
}

// Page describes one page of a listing.
type Page struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func NewPage(page, limit, total int) Page {
	totalPages := (total + limit - 1) / limit
	return Page{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func (p Page) HasNext() bool { return p.Page < p.TotalPages }
func (p Page) HasPrev() bool { return p.Page > 1 }
