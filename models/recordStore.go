package models

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/crestline/charters_recon/config"
	"bitbucket.org/crestline/charters_recon/recon"
	"github.com/go-sql-driver/mysql"
)

// GormRecordStore adapts the back-office tables to recon.RecordStore.
// Every query failure is surfaced as recon.ErrStoreUnavailable: by the time
// a run starts the inputs are fixed, so any error here means the data
// source is gone, not that a row is bad.
type GormRecordStore struct {
	AccountId int
	From      *time.Time
	To        *time.Time
}

func (s *GormRecordStore) FinancialRecords(ctx context.Context) ([]recon.Record, error) {
	rows, err := GetUnreconciledFinancialRecords(ctx, s.AccountId, s.From, s.To)
	if err != nil {
		config.LogError(config.GetLogger(), "models", "GormRecordStore.FinancialRecords", "query unreconciled records", s.AccountId, err)
		return nil, storeErr(err)
	}
	records := make([]recon.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToReconRecord())
	}
	return records, nil
}

func (s *GormRecordStore) BankTransactions(ctx context.Context) ([]recon.Transaction, error) {
	rows, err := GetBankTransactions(ctx, s.AccountId, s.From, s.To)
	if err != nil {
		config.LogError(config.GetLogger(), "models", "GormRecordStore.BankTransactions", "query bank transactions", s.AccountId, err)
		return nil, storeErr(err)
	}
	transactions := make([]recon.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.ToReconTransaction())
	}
	return transactions, nil
}

func storeErr(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return fmt.Errorf("%w: mysql error %d: %s", recon.ErrStoreUnavailable, mysqlErr.Number, mysqlErr.Message)
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: bad connection", recon.ErrStoreUnavailable)
	}
	return fmt.Errorf("%w: %v", recon.ErrStoreUnavailable, err)
}
