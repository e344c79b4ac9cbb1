package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/crestline/charters_recon/config"
	"bitbucket.org/crestline/charters_recon/recon"
	"github.com/shopspring/decimal"
)

// BankTransaction is one statement ledger line as imported. Exactly one of
// DebitAmount/CreditAmount is set and positive, or both are null for the
// header/footer rows some statement exports carry.
type BankTransaction struct {
	ID               int              `gorm:"primary_key" json:"id"`
	BankingAccountId int              `gorm:"index" json:"banking_account_id"`
	TransactionDate  time.Time        `gorm:"not null;index" json:"transaction_date"`
	DebitAmount      *decimal.Decimal `gorm:"type:decimal(20,4)" json:"debit_amount"`
	CreditAmount     *decimal.Decimal `gorm:"type:decimal(20,4)" json:"credit_amount"`
	Description      string           `gorm:"type:text" json:"description"`
	ImportBatchId    string           `gorm:"size:64;index" json:"import_batch_id"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *BankTransaction) IsHeaderRow() bool {
	return t.DebitAmount == nil && t.CreditAmount == nil
}

func (t *BankTransaction) Validate() error {
	if t.IsHeaderRow() {
		return nil
	}
	if t.DebitAmount != nil && t.CreditAmount != nil {
		return fmt.Errorf("bank transaction %d: both debit and credit set", t.ID)
	}
	if t.DebitAmount != nil && !t.DebitAmount.IsPositive() {
		return fmt.Errorf("bank transaction %d: debit must be positive", t.ID)
	}
	if t.CreditAmount != nil && !t.CreditAmount.IsPositive() {
		return fmt.Errorf("bank transaction %d: credit must be positive", t.ID)
	}
	return nil
}

func (t *BankTransaction) ToReconTransaction() recon.Transaction {
	return recon.Transaction{
		ID:          t.ID,
		Date:        t.TransactionDate,
		Debit:       t.DebitAmount,
		Credit:      t.CreditAmount,
		Description: t.Description,
	}
}

// GetBankTransactions lists ledger lines date-then-id ascending. accountId 0
// means all accounts; from/to are optional inclusive transaction_date bounds.
// Header/footer rows are included here; the engine filters them.
func GetBankTransactions(ctx context.Context, accountId int, from *time.Time, to *time.Time) ([]*BankTransaction, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database not initialized")
	}

	dbCtx := db.WithContext(ctx)
	if accountId > 0 {
		dbCtx = dbCtx.Where("banking_account_id = ?", accountId)
	}
	if from != nil {
		dbCtx = dbCtx.Where("transaction_date >= ?", *from)
	}
	if to != nil {
		dbCtx = dbCtx.Where("transaction_date <= ?", *to)
	}

	var transactions []*BankTransaction
	if err := dbCtx.Order("transaction_date ASC, id ASC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
