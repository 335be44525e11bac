package loader_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/graphbridge/graphbridge/database"
	"github.com/graphbridge/graphbridge/export"
	"github.com/graphbridge/graphbridge/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedQuery struct {
	query      string
	parameters map[string]any
}

// fakeResult mirrors the bolt adapter's error surfacing: iterErr appears once rows are fetched,
// closeErr only when the result is consumed.
type fakeResult struct {
	rows     [][]any
	err      error
	iterErr  error
	closeErr error
	idx      int
}

func (s *fakeResult) HasNext(ctx context.Context) bool {
	if s.iterErr != nil {
		s.err = s.iterErr
		return false
	}

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
		case *any:
			*typedTarget = values[idx]
		case *string:
			*typedTarget = values[idx].(string)
		case *int64:
			*typedTarget = values[idx].(int64)
		case *[]string:
			*typedTarget = values[idx].([]string)
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
	if s.err != nil {
		return s.err
	}

	return s.closeErr
}

type fakeInstance struct {
	recorded []recordedQuery
	respond  func(query string, parameters map[string]any) database.Result
}

func (s *fakeInstance) Run(ctx context.Context, query string, parameters map[string]any) database.Result {
	s.recorded = append(s.recorded, recordedQuery{
		query:      query,
		parameters: parameters,
	})

	if s.respond != nil {
		return s.respond(query, parameters)
	}

	// One row back by default so endpoint checks pass
	return &fakeResult{
		rows: [][]any{{int64(1)}},
	}
}

func (s *fakeInstance) Session(ctx context.Context, driverLogic database.QueryLogic, options ...database.Option) error {
	return driverLogic(ctx, s)
}

func (s *fakeInstance) Close(ctx context.Context) error {
	return nil
}

func parseDocument(t *testing.T, raw string) *export.Document {
	t.Helper()

	document, err := export.Parse([]byte(raw))
	require.NoError(t, err)

	return document
}

func TestLoadTwoPhaseOrdering(t *testing.T) {
	document := parseDocument(t, `{
		"nodes": [
			{"id": 1, "labels": ["Person"], "properties": {"label": "Alice"}},
			{"id": 2, "labels": ["Person"], "properties": {"label": "Bob"}}
		],
		"relationships": [
			{"type": "knows", "startNodeId": 1, "endNodeId": 2}
		]
	}`)

	instance := &fakeInstance{}
	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	require.Len(t, instance.recorded, 3)

	assert.Equal(t, "CREATE (n:`Person`) SET n = $properties", instance.recorded[0].query)
	assert.Equal(t, "CREATE (n:`Person`) SET n = $properties", instance.recorded[1].query)
	assert.Contains(t, instance.recorded[2].query, "CREATE (start)-[r:`knows`]->(end)")

	firstProperties := instance.recorded[0].parameters["properties"].(map[string]any)
	assert.Equal(t, "1", firstProperties[loader.MarkerProperty])
	assert.Equal(t, "Alice", firstProperties["label"])

	assert.Equal(t, "1", instance.recorded[2].parameters["startID"])
	assert.Equal(t, "2", instance.recorded[2].parameters["endID"])

	assert.Equal(t, 2, outcome.NodesAttempted)
	assert.Equal(t, 2, outcome.NodesCreated)
	assert.Equal(t, 1, outcome.RelationshipsAttempted)
	assert.Equal(t, 1, outcome.RelationshipsCreated)
	assert.Empty(t, outcome.Failures)
	assert.Equal(t, uint64(2), outcome.DistinctEndpointEstimate())
}

func TestLoadToleratesEntityFailures(t *testing.T) {
	document := parseDocument(t, `{
		"nodes": [
			{"id": 1, "properties": {"label": "Alice"}},
			{"id": 2, "properties": {"label": "Bob"}}
		]
	}`)

	var issued int

	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		issued++

		if issued == 1 {
			return &fakeResult{
				err: errors.New("constraint violation"),
			}
		}

		return &fakeResult{}
	}

	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.NodesAttempted)
	assert.Equal(t, 1, outcome.NodesCreated)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "1", outcome.Failures[0].NodeExternalID)
	assert.Contains(t, outcome.Failures[0].Reason, "constraint violation")
}

func TestLoadNodeFailureSurfacingAtConsume(t *testing.T) {
	document := parseDocument(t, `{
		"nodes": [
			{"id": 1, "properties": {"label": "Alice"}},
			{"id": 2, "properties": {"label": "Bob"}}
		]
	}`)

	var issued int

	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		issued++

		// The store rejects the first create only once the result is consumed
		if issued == 1 {
			return &fakeResult{
				closeErr: errors.New("constraint violation"),
			}
		}

		return &fakeResult{}
	}

	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.NodesAttempted)
	assert.Equal(t, 1, outcome.NodesCreated)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "1", outcome.Failures[0].NodeExternalID)
	assert.Contains(t, outcome.Failures[0].Reason, "constraint violation")
}

func TestLoadRelationshipFailureSurfacingDuringFetch(t *testing.T) {
	document := parseDocument(t, `{
		"relationships": [{"type": "knows", "startNodeId": 1, "endNodeId": 2}]
	}`)

	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		return &fakeResult{
			iterErr: errors.New("transaction rolled back"),
		}
	}

	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	assert.Equal(t, 0, outcome.RelationshipsCreated)

	// The server error is reported as-is, not as a missing endpoint
	require.Len(t, outcome.Failures, 1)
	assert.Contains(t, outcome.Failures[0].Reason, "transaction rolled back")
	assert.NotContains(t, outcome.Failures[0].Reason, "endpoints")
}

func TestLoadScriptFailureSurfacingAtConsume(t *testing.T) {
	document := parseDocument(t, `{"cypherScript": "CREATE (n:Person);"}`)

	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		return &fakeResult{
			closeErr: errors.New("syntax error"),
		}
	}

	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	assert.Equal(t, 1, outcome.StatementsAttempted)
	assert.Equal(t, 0, outcome.StatementsRun)
	require.Len(t, outcome.Failures, 1)
}

func TestLoadRejectsInvalidIdentifiers(t *testing.T) {
	document := parseDocument(t, `{
		"nodes": [{"id": 1, "labels": ["Bad Label"]}],
		"relationships": [{"type": "has-tick", "startNodeId": 1, "endNodeId": 1}]
	}`)

	instance := &fakeInstance{}
	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)

	// Neither entity reaches the store
	assert.Empty(t, instance.recorded)
	assert.Equal(t, 0, outcome.NodesCreated)
	assert.Equal(t, 0, outcome.RelationshipsCreated)
	assert.Len(t, outcome.Failures, 2)
}

func TestLoadRelationshipWithMissingEndpoint(t *testing.T) {
	document := parseDocument(t, `{
		"relationships": [{"type": "knows", "startNodeId": 1, "endNodeId": 99}]
	}`)

	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		// No row back means the endpoint match found nothing
		return &fakeResult{}
	}

	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	assert.Equal(t, 1, outcome.RelationshipsAttempted)
	assert.Equal(t, 0, outcome.RelationshipsCreated)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "1", outcome.Failures[0].StartExternalID)
	assert.Equal(t, "99", outcome.Failures[0].EndExternalID)
}

func TestLoadRelationshipWithoutEndpointIdentifier(t *testing.T) {
	document := parseDocument(t, `{
		"relationships": [{"type": "knows", "startNodeId": 1}]
	}`)

	instance := &fakeInstance{}
	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	assert.Empty(t, instance.recorded)
	require.Len(t, outcome.Failures, 1)
	assert.Contains(t, outcome.Failures[0].Reason, "missing an endpoint identifier")
}

func TestLoadScriptDocument(t *testing.T) {
	document := parseDocument(t, `{
		"cypherScript": "CREATE (n:Person {label: 'Alice'}); CREATE (n:Person {label: 'Bob'});"
	}`)

	var issued int

	instance := &fakeInstance{}
	instance.respond = func(query string, parameters map[string]any) database.Result {
		issued++

		if issued == 1 {
			return &fakeResult{
				err: errors.New("syntax error"),
			}
		}

		return &fakeResult{}
	}

	outcome, err := loader.New(instance, loader.Options{}).Load(context.Background(), document)

	require.NoError(t, err)
	require.Len(t, instance.recorded, 2)

	assert.Equal(t, 2, outcome.StatementsAttempted)
	assert.Equal(t, 1, outcome.StatementsRun)

	require.Len(t, outcome.Failures, 1)
	assert.Contains(t, outcome.Failures[0].Statement, "Alice")
}

func TestLoadClearFirst(t *testing.T) {
	document := parseDocument(t, `{"nodes": [{"id": 1}]}`)

	instance := &fakeInstance{}
	_, err := loader.New(instance, loader.Options{ClearFirst: true}).Load(context.Background(), document)

	require.NoError(t, err)
	require.NotEmpty(t, instance.recorded)
	assert.Equal(t, "MATCH (n) DETACH DELETE n", instance.recorded[0].query)
}

func TestLoadStripMarkers(t *testing.T) {
	document := parseDocument(t, `{"nodes": [{"id": 1}]}`)

	instance := &fakeInstance{}
	_, err := loader.New(instance, loader.Options{StripMarkers: true}).Load(context.Background(), document)

	require.NoError(t, err)
	require.NotEmpty(t, instance.recorded)

	last := instance.recorded[len(instance.recorded)-1]
	assert.Contains(t, last.query, "REMOVE n.`"+loader.MarkerProperty+"`")
}

func TestLoadRejectsTensorDocuments(t *testing.T) {
	document := parseDocument(t, `{"nodeFeatures": {"Person": [[1]]}}`)

	_, err := loader.New(&fakeInstance{}, loader.Options{}).Load(context.Background(), document)
	require.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	statements := loader.SplitStatements(`
		CREATE (n:Person {label: 'semi;colon'});
		CREATE (m:` + "`Weird;Label`" + ` {note: "also;quoted"});

		MATCH (n) RETURN n
	`)

	require.Len(t, statements, 3)
	assert.True(t, strings.Contains(statements[0], "semi;colon"))
	assert.True(t, strings.Contains(statements[1], "Weird;Label"))
	assert.Equal(t, "MATCH (n) RETURN n", statements[2])
}

func TestSplitStatementsEmptyScript(t *testing.T) {
	assert.Empty(t, loader.SplitStatements("  ;; ;\n"))
}
