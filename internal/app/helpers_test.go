package app

import (
	"testing"
	"time"

	"delivery-tracker/internal/config"
	"delivery-tracker/internal/gateway/sheets"
	"delivery-tracker/internal/schema"
	"delivery-tracker/internal/testutil/fakesheet"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Sheets.SpreadsheetID = "sheet-test"
	cfg.Log.Level = "error"
	return cfg
}

func newFakeSheet() *fakesheet.Sheet {
	return fakesheet.New(fakesheet.Header(schema.Default()))
}

func fakeValues(sheet *fakesheet.Sheet) func(*config.Config) sheets.Values {
	return func(*config.Config) sheets.Values { return sheet }
}

// requireEventually - делаем проверку, пока она не будет пройдена или не истечет таймаут
func requireEventually(t *testing.T, timeout, tick time.Duration, condition func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%s: condition not satisfied within %s", msg, timeout)
		}
		<-ticker.C
	}
}
