// Package guard flips the binaries into test mode when imported from a test,
// so main() returns before dialing Postgres or Redis.
package guard

import (
	"os"
	"sync"
)

const envKey = "DEVMARKET_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(envKey) == "" {
			_ = os.Setenv(envKey, "1")
		}
	})
}
