package domain

import (
	"errors"
	"time"
)

const (
	TransactionTypeSpend  = "SPEND"
	TransactionTypeCharge = "CHARGE"
	TransactionTypeReward = "REWARD"
	TransactionTypeAdjust = "ADJUST"

	RefTypeSpin    = "SPIN"
	RefTypePayment = "PAYMENT"
	RefTypeEvent   = "EVENT"
	RefTypeAdmin   = "ADMIN"
)

var (
	MessageSuccessGetWallet        = "wallet retrieved successfully"
	MessageSuccessGetLedgerHistory = "ledger history retrieved successfully"
	MessageSuccessAdjustPoints     = "points adjusted successfully"

	MessageFailedGetWallet        = "failed to retrieve wallet"
	MessageFailedGetLedgerHistory = "failed to retrieve ledger history"
	MessageFailedAdjustPoints     = "failed to adjust points"

	ErrInsufficientBalance = errors.New("insufficient points")
	ErrInsufficientTickets = errors.New("insufficient tickets")
	ErrWalletNotFound      = errors.New("wallet not found")
)

type (
	WalletBalance struct {
		BalancePoint  int64 `json:"balance_point"`
		TicketBalance int   `json:"ticket_balance"`
	}

	LedgerEntry struct {
		ID        string    `json:"id"`
		Type      string    `json:"type"`
		Amount    int64     `json:"amount"`
		RefType   string    `json:"ref_type"`
		RefID     string    `json:"ref_id"`
		Meta      string    `json:"meta,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	LedgerHistory struct {
		Items      []*LedgerEntry `json:"items"`
		NextCursor string         `json:"next_cursor,omitempty"`
	}

	AdjustPointsRequest struct {
		Amount int64  `json:"amount" validate:"required"`
		Reason string `json:"reason" validate:"required,min=2"`
	}
)
