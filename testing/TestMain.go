package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("TRADEFLOW_TEST_MODE", "1")
		if os.Getenv("AUTH_API_KEY") == "" {
			_ = os.Setenv("AUTH_API_KEY", "test-anon-key")
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
