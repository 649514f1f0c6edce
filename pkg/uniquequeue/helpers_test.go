package uniquequeue

import (
	"os"
	"strconv"
)

// Test size configuration via environment variables:
//   UQ_TEST_SIZE   - number of values pushed through the queue (default: 10000)
//   UQ_CONCURRENCY - number of producer goroutines (default: 50)

// getEnvInt reads an integer from an environment variable with a default value.
func getEnvInt(name string, defaultVal int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

func getTestSize() int {
	return getEnvInt("UQ_TEST_SIZE", 10000)
}

func getConcurrency() int {
	return getEnvInt("UQ_CONCURRENCY", 50)
}
