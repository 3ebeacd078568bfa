package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceLineItem is one expense or revenue line of a collaborator invoice.
type InvoiceLineItem struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description string          `json:"description"`
}

// InvoicePostingRequest is sent by the AP/AR modules when an invoice is approved.
type InvoicePostingRequest struct {
	Kind             domain.OpenItemKind `json:"kind" binding:"required,oneof=PAYABLE RECEIVABLE"`
	Counterparty     string              `json:"counterparty" binding:"required"`
	DocumentNumber   string              `json:"documentNumber"`
	Total            decimal.Decimal     `json:"total" binding:"required,gt=0"`
	LineItems        []InvoiceLineItem   `json:"lineItems" binding:"required,min=1,dive"`
	Date             time.Time           `json:"date" binding:"required"`
	ControlAccountID *string             `json:"controlAccountID"` // Overrides the configured payable/receivable account
}

// PaymentPostingRequest is sent by the AP/AR modules when a payment settles an invoice.
type PaymentPostingRequest struct {
	Kind             domain.OpenItemKind `json:"kind" binding:"required,oneof=PAYABLE RECEIVABLE"`
	Counterparty     string              `json:"counterparty" binding:"required"`
	DocumentNumber   string              `json:"documentNumber"`
	Amount           decimal.Decimal     `json:"amount" binding:"required,gt=0"`
	BankAccountID    string              `json:"bankAccountID" binding:"required"`
	Date             time.Time           `json:"date" binding:"required"`
	ControlAccountID *string             `json:"controlAccountID"`
}
