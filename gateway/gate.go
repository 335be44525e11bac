// Package gateway exposes a graph store to an LLM agent over MCP. Every query an agent submits
// passes through a lexical safety gate that refuses anything resembling a mutation, and result
// sets are capped and rendered as plain text the agent can read back.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphbridge/graphbridge/database"
	"github.com/graphbridge/graphbridge/util"
)

const (
	// RefusalMessage is returned verbatim when a submitted query fails the safety gate.
	RefusalMessage = "Refused: only read-only Cypher is allowed."

	// EmptyResultMessage is returned verbatim when a permitted query matches nothing.
	EmptyResultMessage = "No results found."

	// DefaultRowLimit caps queries that carry no limit of their own.
	DefaultRowLimit = 25
)

// mutationTokens is checked as case insensitive substrings. The gate is deliberately coarse: a
// false refusal costs the agent a rephrase, a false pass costs the store.
var mutationTokens = []string{
	"CREATE",
	"MERGE",
	"DELETE",
	"SET",
	"DROP",
	"CALL DBMS",
	"LOAD CSV",
}

// IsReadOnly reports whether the query passes the lexical mutation gate.
func IsReadOnly(query string) bool {
	upper := strings.ToUpper(query)

	for _, token := range mutationTokens {
		if strings.Contains(upper, token) {
			return false
		}
	}

	return true
}

// EnsureLimit appends the default row cap to queries that do not already carry a LIMIT clause.
func EnsureLimit(query string) string {
	if strings.Contains(strings.ToUpper(query), "LIMIT") {
		return query
	}

	return fmt.Sprintf("%s\nLIMIT %d", query, DefaultRowLimit)
}

// RunQuery gates, caps, and executes one agent-submitted cypher query over a read-only session,
// rendering the result set as text. Refusals and empty result sets are successful calls carrying
// their sentinel messages; the error return covers store failures only.
func RunQuery(ctx context.Context, db database.Instance, query string) (string, error) {
	if !IsReadOnly(query) {
		return RefusalMessage, nil
	}

	var rendered string

	if err := db.Session(ctx, func(ctx context.Context, driver database.Driver) error {
		result := driver.Run(ctx, EnsureLimit(query), nil)
		defer result.Close(ctx)

		rendered = renderResult(ctx, result)
		return result.Error()
	}, database.OptionReadOnly); err != nil {
		if util.IsNeoTimeoutError(err) {
			return "", fmt.Errorf("query timed out, narrow it or add a LIMIT: %w", err)
		}

		return "", err
	}

	if rendered == "" {
		return EmptyResultMessage, nil
	}

	return rendered, nil
}

// renderResult writes each row as one "key: value" line per column, with rows separated by a
// divider line.
func renderResult(ctx context.Context, result database.Result) string {
	builder := strings.Builder{}

	for result.HasNext(ctx) {
		if builder.Len() > 0 {
			builder.WriteString("---\n")
		}

		var (
			keys   = result.Keys()
			values = result.Values()
		)

		for idx, value := range values {
			key := fmt.Sprintf("column_%d", idx)

			if idx < len(keys) {
				key = keys[idx]
			}

			fmt.Fprintf(&builder, "%s: %v\n", key, value)
		}
	}

	return builder.String()
}
