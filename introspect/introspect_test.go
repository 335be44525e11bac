package introspect_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/graphbridge/graphbridge/database"
	"github.com/graphbridge/graphbridge/introspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	rows [][]any
	err  error
	idx  int
}

func (s *fakeResult) HasNext(ctx context.Context) bool {
	if s.err != nil || s.idx >= len(s.rows) {
		return false
	}

	s.idx++
	return true
}

func (s *fakeResult) Scan(scanTargets ...any) error {
	values := s.rows[s.idx-1]

	for idx, scanTarget := range scanTargets {
		switch typedTarget := scanTarget.(type) {
		case *string:
			*typedTarget = values[idx].(string)
		case *int64:
			*typedTarget = values[idx].(int64)
		case *map[string]any:
			*typedTarget = values[idx].(map[string]any)
		default:
			return errors.New("unsupported scan target")
		}
	}

	return nil
}

func (s *fakeResult) Error() error {
	return s.err
}

func (s *fakeResult) Keys() []string {
	return nil
}

func (s *fakeResult) Values() []any {
	return s.rows[s.idx-1]
}

func (s *fakeResult) Close(ctx context.Context) error {
	return nil
}

type fakeInstance struct {
	recorded []string
	options  []database.Option
	respond  func(query string, parameters map[string]any) database.Result
}

func (s *fakeInstance) Run(ctx context.Context, query string, parameters map[string]any) database.Result {
	s.recorded = append(s.recorded, query)
	return s.respond(query, parameters)
}

func (s *fakeInstance) Session(ctx context.Context, driverLogic database.QueryLogic, options ...database.Option) error {
	s.options = append(s.options, options...)
	return driverLogic(ctx, s)
}

func (s *fakeInstance) Close(ctx context.Context) error {
	return nil
}

func TestGetSchema(t *testing.T) {
	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		switch {
		case strings.Contains(query, "db.labels"):
			assert.Contains(t, query, "ORDER BY label")
			return &fakeResult{rows: [][]any{{"Paper"}, {"Person"}}}

		case strings.Contains(query, "db.relationshipTypes"):
			assert.Contains(t, query, "ORDER BY relationshipType")
			return &fakeResult{rows: [][]any{{"authored"}}}

		case strings.Contains(query, "db.propertyKeys"):
			assert.Contains(t, query, "ORDER BY propertyKey")
			return &fakeResult{rows: [][]any{{"label"}, {"year"}}}

		case strings.Contains(query, "MATCH (n:`Person`)"):
			return &fakeResult{rows: [][]any{{"label", int64(50)}, {"age", int64(12)}}}

		case strings.Contains(query, "MATCH (n:`Paper`)"):
			return &fakeResult{rows: [][]any{{"year", int64(7)}}}

		default:
			return database.NewErrorResult(errors.New("unexpected query: " + query))
		}
	}

	schema, err := introspect.GetSchema(context.Background(), instance)

	require.NoError(t, err)
	assert.Equal(t, []string{"Paper", "Person"}, schema.Labels)
	assert.Equal(t, []string{"authored"}, schema.RelationshipTypes)
	assert.Equal(t, []string{"label", "year"}, schema.PropertyKeys)
	assert.Equal(t, []string{"label", "age"}, schema.LabelPropertyKeys["Person"])
	assert.Equal(t, []string{"year"}, schema.LabelPropertyKeys["Paper"])

	require.NotEmpty(t, instance.options)
	assert.Equal(t, database.OptionReadOnly, instance.options[0])

	formatted := schema.Format()
	assert.Contains(t, formatted, "Node labels: Paper, Person")
	assert.Contains(t, formatted, "Person: label, age")
}

func TestGetSchemaPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")

	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		return database.NewErrorResult(storeErr)
	}

	_, err := introspect.GetSchema(context.Background(), instance)
	require.ErrorIs(t, err, storeErr)
}

func TestGetCounts(t *testing.T) {
	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		if strings.Contains(query, "-[r]->") {
			return &fakeResult{rows: [][]any{{int64(7)}}}
		}

		return &fakeResult{rows: [][]any{{int64(3)}}}
	}

	counts, err := introspect.GetCounts(context.Background(), instance)

	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Nodes)
	assert.Equal(t, int64(7), counts.Relationships)
	assert.Equal(t, "3 nodes, 7 relationships", counts.String())
}

func TestSampleNodes(t *testing.T) {
	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		assert.Equal(t, 5, parameters["limit"])

		return &fakeResult{rows: [][]any{
			{map[string]any{"label": "Alice"}},
			{map[string]any{"label": "Bob"}},
		}}
	}

	samples, err := introspect.SampleNodes(context.Background(), instance, "Person", 5)

	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "Alice", samples[0]["label"])

	require.Len(t, instance.recorded, 1)
	assert.Contains(t, instance.recorded[0], "MATCH (n:`Person`)")
}

func TestSampleNodesValidatesInput(t *testing.T) {
	instance := &fakeInstance{}

	_, err := introspect.SampleNodes(context.Background(), instance, "Person) DETACH DELETE (n", 5)
	require.Error(t, err)

	_, err = introspect.SampleNodes(context.Background(), instance, "Person", 0)
	require.Error(t, err)

	assert.Empty(t, instance.recorded)
}
