package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/crestline/charters_recon/config"
	"bitbucket.org/crestline/charters_recon/recon"
	"bitbucket.org/crestline/charters_recon/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconciliationRun records one engine invocation: the options used and the
// outcome counts. The run id doubles as the correlation id in logs, so a
// console report can always be traced back to its persisted entries.
type ReconciliationRun struct {
	ID               string          `gorm:"primary_key;size:36" json:"id"`
	BankingAccountId int             `gorm:"index" json:"banking_account_id"`
	WindowDays       int             `gorm:"not null" json:"window_days"`
	AmountTolerance  decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount_tolerance"`
	RecordCount      int             `json:"record_count"`
	MatchedCount     int             `json:"matched_count"`
	UnmatchedCount   int             `json:"unmatched_count"`
	StartedAt        time.Time       `gorm:"not null" json:"started_at"`
	AppliedAt        *time.Time      `json:"applied_at"`
	AppliedBy        string          `gorm:"size:255;default:null" json:"applied_by"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// ReconciliationRunEntry is one MatchResult persisted for audit, keyed by
// run id.
type ReconciliationRunEntry struct {
	ID            int       `gorm:"primary_key" json:"id"`
	RunId         string    `gorm:"size:36;index;not null" json:"run_id"`
	RecordId      int       `gorm:"index;not null" json:"record_id"`
	TransactionId *int      `gorm:"index" json:"transaction_id"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	DateDeltaDays int       `json:"date_delta_days"`
	Note          string    `gorm:"type:text" json:"note"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// NewReconciliationRun builds the run row for a result set. The run id
// comes from the context correlation id when present so that logs, report
// rows and DB entries all share one id.
func NewReconciliationRun(ctx context.Context, accountId int, opts recon.Options, results []recon.MatchResult) *ReconciliationRun {
	runId, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || runId == "" {
		runId = uuid.NewString()
	}

	run := &ReconciliationRun{
		ID:               runId,
		BankingAccountId: accountId,
		WindowDays:       opts.WindowDays,
		AmountTolerance:  opts.AmountTolerance,
		RecordCount:      len(results),
		StartedAt:        time.Now().UTC(),
	}
	for _, result := range results {
		if result.Status == recon.MatchStatusMatched {
			run.MatchedCount++
		} else {
			run.UnmatchedCount++
		}
	}
	return run
}

func NewReconciliationRunEntry(runId string, result recon.MatchResult) ReconciliationRunEntry {
	return ReconciliationRunEntry{
		RunId:         runId,
		RecordId:      result.RecordID,
		TransactionId: result.TransactionID,
		Status:        string(result.Status),
		DateDeltaDays: result.DateDeltaDays,
		Note:          result.Note,
	}
}

// GetReconciliationRun fetches one run row by id.
func GetReconciliationRun(ctx context.Context, runId string) (*ReconciliationRun, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database not initialized")
	}
	var run ReconciliationRun
	if err := db.WithContext(ctx).Where("id = ?", runId).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &run, nil
}
