// Package testing switches the process into test mode when imported for side
// effects by package tests.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("SCHOOLADMIN_TEST_MODE", "1")
		if os.Getenv("LONG_TOKEN_SECRET") == "" {
			_ = os.Setenv("LONG_TOKEN_SECRET", "test-long-secret")
		}
		if os.Getenv("SHORT_TOKEN_SECRET") == "" {
			_ = os.Setenv("SHORT_TOKEN_SECRET", "test-short-secret")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
