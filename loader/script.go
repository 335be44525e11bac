package loader

import (
	"strings"
)

// SplitStatements breaks a cypher script into individual statements on top-level semicolons.
// Semicolons inside single quoted, double quoted, or backtick quoted regions do not split. Empty
// statements between separators are dropped.
func SplitStatements(script string) []string {
	var (
		statements []string
		builder    strings.Builder
		quote      rune
	)

	flush := func() {
		if statement := strings.TrimSpace(builder.String()); statement != "" {
			statements = append(statements, statement)
		}

		builder.Reset()
	}

	for _, next := range script {
		switch {
		case quote != 0:
			builder.WriteRune(next)

			if next == quote {
				quote = 0
			}

		case next == '\'' || next == '"' || next == '`':
			quote = next
			builder.WriteRune(next)

		case next == ';':
			flush()

		default:
			builder.WriteRune(next)
		}
	}

	flush()
	return statements
}
