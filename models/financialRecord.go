package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/crestline/charters_recon/config"
	"bitbucket.org/crestline/charters_recon/recon"
	"bitbucket.org/crestline/charters_recon/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinancialRecordDirection string

const (
	FinancialRecordDirectionIncoming FinancialRecordDirection = "Incoming"
	FinancialRecordDirectionOutgoing FinancialRecordDirection = "Outgoing"
)

// FinancialRecord is a receipt or payment awaiting reconciliation against
// the bank ledger. The engine never writes this table; only
// ApplyMatchResults sets matched_transaction_id, once, transactionally.
type FinancialRecord struct {
	ID                   int                      `gorm:"primary_key" json:"id"`
	BankingAccountId     int                      `gorm:"index" json:"banking_account_id"`
	RecordDate           time.Time                `gorm:"not null;index" json:"record_date"`
	Amount               decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Direction            FinancialRecordDirection `gorm:"not null;type:enum('Incoming','Outgoing');" json:"direction"`
	CounterpartyHint     string                   `gorm:"size:255;default:null" json:"counterparty_hint"`
	MatchedTransactionId *int                     `gorm:"index" json:"matched_transaction_id"`
	CreatedAt            time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *FinancialRecord) ToReconRecord() recon.Record {
	return recon.Record{
		ID:                   r.ID,
		Date:                 r.RecordDate,
		Amount:               r.Amount,
		Direction:            recon.Direction(r.Direction),
		CounterpartyHint:     r.CounterpartyHint,
		MatchedTransactionID: r.MatchedTransactionId,
	}
}

// GetUnreconciledFinancialRecords lists records with no applied match yet,
// date-then-id ascending. accountId 0 means all accounts; from/to are
// optional inclusive bounds on record_date.
func GetUnreconciledFinancialRecords(ctx context.Context, accountId int, from *time.Time, to *time.Time) ([]*FinancialRecord, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database not initialized")
	}

	dbCtx := db.WithContext(ctx).Where("matched_transaction_id IS NULL")
	if accountId > 0 {
		dbCtx = dbCtx.Where("banking_account_id = ?", accountId)
	}
	if from != nil {
		dbCtx = dbCtx.Where("record_date >= ?", *from)
	}
	if to != nil {
		dbCtx = dbCtx.Where("record_date <= ?", *to)
	}

	var records []*FinancialRecord
	if err := dbCtx.Order("record_date ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ApplyMatchResults persists one engine run: matched records get their
// matched_transaction_id set (only if still unset), and every result is
// written as a run entry for the audit trail. All or nothing.
func ApplyMatchResults(ctx context.Context, run *ReconciliationRun, results []recon.MatchResult) error {
	db := config.GetDB()
	if db == nil {
		return errors.New("database not initialized")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for _, result := range results {
			if result.Status == recon.MatchStatusMatched && result.TransactionID != nil {
				res := tx.Model(&FinancialRecord{}).
					Where("id = ? AND matched_transaction_id IS NULL", result.RecordID).
					Update("matched_transaction_id", *result.TransactionID)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("record %d already reconciled or missing; aborting apply", result.RecordID)
				}
			}
			entry := NewReconciliationRunEntry(run.ID, result)
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		updates := map[string]interface{}{"applied_at": &now}
		if actor, ok := utils.GetUserNameFromContext(ctx); ok && actor != "" {
			updates["applied_by"] = actor
		}
		return tx.Model(run).Updates(updates).Error
	})
}

// RevertRun clears matched_transaction_id for every record the given run
// matched, leaving run entries in place as history.
func RevertRun(ctx context.Context, runId string) (int64, error) {
	db := config.GetDB()
	if db == nil {
		return 0, errors.New("database not initialized")
	}

	var reverted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []*ReconciliationRunEntry
		if err := tx.Where("run_id = ? AND status = ?", runId, string(recon.MatchStatusMatched)).
			Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no matched entries found for run %s", runId)
		}
		for _, entry := range entries {
			if entry.TransactionId == nil {
				continue
			}
			res := tx.Model(&FinancialRecord{}).
				Where("id = ? AND matched_transaction_id = ?", entry.RecordId, *entry.TransactionId).
				Update("matched_transaction_id", nil)
			if res.Error != nil {
				return res.Error
			}
			reverted += res.RowsAffected
		}
		return tx.Model(&ReconciliationRun{}).Where("id = ?", runId).
			Update("applied_at", nil).Error
	})
	return reverted, err
}
