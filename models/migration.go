package models

import (
	"log"

	"bitbucket.org/crestline/charters_recon/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&FinancialRecord{}, &BankTransaction{},
		&ReconciliationRun{}, &ReconciliationRunEntry{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
