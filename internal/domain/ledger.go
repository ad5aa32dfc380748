// Package domain holds the core entities and derived report structures
// for the personal finance ledger.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a ledger entry: money coming in or going out.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// EntryStatus is the payment state of a ledger entry.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusPaid      EntryStatus = "paid"
	StatusCancelled EntryStatus = "cancelled"
)

// AccountType distinguishes checking from savings accounts.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// Bank is a financial institution, identified by its clearing code.
type Bank struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Account is a bank account holding entries.
type Account struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	BankID         string          `json:"bank_id"`
	CreatedAt      time.Time       `json:"created_at,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at,omitempty"`
}

// Category classifies entries and fixed costs.
type Category struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// FixedCost is a recurring obligation tracked by due date only.
// There is no payment status on a fixed cost; dueness is always
// derived by comparing DueDate against a reference date.
type FixedCost struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// Entry is a dated monetary movement (um lançamento).
// Amount is always a non-negative magnitude; the sign is derived from
// Direction at aggregation time and never stored.
type Entry struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Direction   Direction       `json:"direction"`
	Status      EntryStatus     `json:"status"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// Income is a standalone receita record. Structurally an inflow-only
// entry; kept as its own collection for compatibility with the ledger
// layout.
type Income struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Status      EntryStatus     `json:"status"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}
