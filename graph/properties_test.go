package graph_test

import (
	"testing"

	"github.com/graphbridge/graphbridge/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperties(t *testing.T) {
	properties := graph.NewProperties()

	require.Equal(t, 0, properties.Len())
	require.Equal(t, nil, properties.Get("test").Any())
	require.Equal(t, map[string]any{}, properties.ModifiedProperties())
	require.Equal(t, []string(nil), properties.DeletedProperties())

	properties.Delete("test")
	require.False(t, properties.Exists("not found"))
	require.Equal(t, "default", properties.GetOrDefault("not found", "default").Any())

	properties.Set("test", "test")
	properties.Set("value", "test")
	properties.Delete("value")

	require.False(t, properties.Exists("not found"))
	require.Equal(t, 1, properties.Len())
	require.Equal(t, "default", properties.GetOrDefault("not found", "default").Any())
	require.Equal(t, "test", properties.GetOrDefault("test", "default").Any())
	require.Equal(t, "test", properties.Get("test").Any())

	properties.Delete("test")
	properties.Set("test", "other")

	require.Equal(t, map[string]any{"test": "other"}, properties.ModifiedProperties())

	_, markedForDeletion := properties.Deleted["test"]
	require.False(t, markedForDeletion)
	require.Equal(t, []string{"value"}, properties.DeletedProperties())
}

func TestPropertiesKeys(t *testing.T) {
	props := graph.NewProperties()
	props.SetAll(map[string]any{
		"z": 1,
		"a": 2,
		"m": 3,
	})
	ignored := map[string]struct{}{
		"z": {},
	}

	// sorted and excludes "z"
	assert.Equal(t, []string{"a", "m"}, props.Keys(ignored))

	props = graph.NewProperties()
	assert.Empty(t, props.Keys(nil))
}

func TestPropertyValueNegotiation(t *testing.T) {
	props := graph.AsProperties(map[string]any{
		"name":    "Alice",
		"age":     int64(30),
		"weight":  72.5,
		"admin":   true,
		"aliases": []any{"al", "ally"},
	})

	t.Run("string", func(t *testing.T) {
		value, err := props.Get("name").String()
		require.NoError(t, err)
		require.Equal(t, "Alice", value)

		_, err = props.Get("age").String()
		require.Error(t, err)
	})

	t.Run("numeric widening", func(t *testing.T) {
		intValue, err := props.Get("age").Int()
		require.NoError(t, err)
		require.Equal(t, 30, intValue)

		floatValue, err := props.Get("age").Float64()
		require.NoError(t, err)
		require.Equal(t, 30.0, floatValue)

		truncated, err := props.Get("weight").Int64()
		require.NoError(t, err)
		require.Equal(t, int64(72), truncated)
	})

	t.Run("bool", func(t *testing.T) {
		value, err := props.Get("admin").Bool()
		require.NoError(t, err)
		require.True(t, value)
	})

	t.Run("string slice", func(t *testing.T) {
		value, err := props.Get("aliases").StringSlice()
		require.NoError(t, err)
		require.Equal(t, []string{"al", "ally"}, value)
	})

	t.Run("missing key", func(t *testing.T) {
		value := props.Get("missing")
		require.True(t, value.IsNil())

		_, err := value.String()
		require.ErrorIs(t, err, graph.ErrPropertyNotFound)
	})
}
