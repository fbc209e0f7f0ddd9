// Package env keeps names of environment variables with special significance to
// ggexpr.
package env

// Environment variables with special significance to ggexpr.
//
// Note that some of these env vars may be significant only in special
// circumstances, such as when running unit tests.
const (
	// Path of the database for history and saved bindings, used when -db is
	// not given.
	GGEXPR_DB = "GGEXPR_DB"
	// Factor by which timeouts in tests are scaled.
	GGEXPR_TEST_TIME_SCALE = "GGEXPR_TEST_TIME_SCALE"
)
