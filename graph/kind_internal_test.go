package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringKindInterning(t *testing.T) {
	var (
		first  = StringKind("Person")
		second = StringKind("Person")
	)

	// Interned kinds must compare equal as interface values
	require.True(t, first == second)
	require.True(t, first.Is(second))
	require.False(t, first.Is(StringKind("Paper")))
}

func TestKinds(t *testing.T) {
	kinds := StringsToKinds([]string{"Person", "Author"})

	require.Equal(t, []string{"Person", "Author"}, kinds.Strings())
	require.Equal(t, "Person,Author", kinds.Formatted())
	require.True(t, kinds.ContainsOneOf(StringKind("Author")))
	require.False(t, kinds.ContainsOneOf(StringKind("Paper")))

	added := kinds.Add(StringKind("Person"), StringKind("Paper"))
	require.Len(t, added, 3)
}
