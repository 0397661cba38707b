package utils

import "strconv"

// StringToInt parses s as a base-10 int, yielding 0 for anything
// unparseable. Route params that come out as 0 fail the lookup they feed.
func StringToInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
