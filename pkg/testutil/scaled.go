package testutil

import (
	"os"
	"strconv"
	"time"

	"src.ggexpr.dev/pkg/env"
)

// Scaled multiplies d by the factor in $GGEXPR_TEST_TIME_SCALE, for running
// timing-sensitive tests on slow machines. Missing, malformed and
// non-positive factors count as 1.
func Scaled(d time.Duration) time.Duration {
	factor, err := strconv.ParseFloat(os.Getenv(env.GGEXPR_TEST_TIME_SCALE), 64)
	if err != nil || factor <= 0 {
		return d
	}
	return time.Duration(float64(d) * factor)
}
