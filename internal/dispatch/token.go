package dispatch

import (
	"strconv"
	"strings"
)

// parseToken splits "name:arg:arg" into its action name and raw arguments.
func parseToken(token string) (string, []string) {
	parts := strings.Split(strings.TrimSpace(token), ":")
	return parts[0], parts[1:]
}

// argUint reads the i-th argument as uint, 0 when absent or malformed.
func argUint(args []string, i int) uint {
	if i >= len(args) {
		return 0
	}
	v, err := strconv.ParseUint(args[i], 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// argInt reads the i-th argument as int, 0 when absent or malformed.
func argInt(args []string, i int) int {
	if i >= len(args) {
		return 0
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0
	}
	return v
}

// argIntStrict reads the i-th argument as int, reporting absent or malformed
// values instead of defaulting them. Used where 0 has a meaning of its own.
func argIntStrict(args []string, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, false
	}
	return v, true
}

// argInt64 reads the i-th argument as int64, 0 when absent or malformed.
func argInt64(args []string, i int) int64 {
	if i >= len(args) {
		return 0
	}
	v, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
