package domain

import (
	"fmt"
	"strings"
)

// DefaultQueryLimit bounds ad-hoc queries that carry no row limit of
// their own.
const DefaultQueryLimit = 100

// GuardQuery validates and bounds one ad-hoc statement for read-only
// execution. The statement is trimmed, must start with SELECT
// (case-insensitive), and gets a textual " LIMIT n" appended when no
// LIMIT substring is present.
//
// Known limitations, kept for compatibility with existing callers: the
// prefix check does not parse the statement, so a mutating sub-clause
// behind a SELECT is not caught; the LIMIT check is a substring match, so
// a statement containing "limit" anywhere (even inside a string literal)
// is treated as already bounded.
func GuardQuery(stmt string, limit int) (string, error) {
	trimmed := strings.TrimSpace(stmt)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return "", fmt.Errorf("only SELECT queries are allowed for safety")
	}
	if !strings.Contains(strings.ToUpper(trimmed), "LIMIT") {
		if limit <= 0 {
			limit = DefaultQueryLimit
		}
		trimmed = fmt.Sprintf("%s LIMIT %d", trimmed, limit)
	}
	return trimmed, nil
}
