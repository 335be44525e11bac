package loader

import (
	"hash/fnv"
	"log/slog"

	"github.com/google/uuid"
	"github.com/graphbridge/graphbridge/cardinality"
	"github.com/graphbridge/graphbridge/graph"
)

// Failure records one entity that did not make it into the store. Exactly one of the identifier
// groups is populated depending on what failed.
type Failure struct {
	NodeExternalID  string
	StartExternalID string
	EndExternalID   string
	Statement       string
	Reason          string
}

// Outcome accumulates what one import run did: how many entities were attempted, how many landed,
// and the individual failures. A run with failures is still a completed run.
type Outcome struct {
	RunID string

	NodesAttempted int
	NodesCreated   int

	RelationshipsAttempted int
	RelationshipsCreated   int

	StatementsAttempted int
	StatementsRun       int

	Failures []Failure

	endpointSketch cardinality.Simplex
}

func NewOutcome() *Outcome {
	return &Outcome{
		RunID:          uuid.NewString(),
		endpointSketch: cardinality.NewHyperLogLog64(),
	}
}

// DistinctEndpointEstimate reports the approximate number of distinct node identifiers referenced
// by the run's relationships.
func (s *Outcome) DistinctEndpointEstimate() uint64 {
	return s.endpointSketch.Cardinality()
}

func (s *Outcome) observeEndpoints(externalIDs ...string) {
	for _, externalID := range externalIDs {
		if externalID == "" {
			continue
		}

		digest := fnv.New64a()
		digest.Write([]byte(externalID))

		s.endpointSketch.Add(digest.Sum64())
	}
}

func (s *Outcome) addNodeFailure(externalID string, err error) {
	s.Failures = append(s.Failures, Failure{
		NodeExternalID: externalID,
		Reason:         err.Error(),
	})
}

func (s *Outcome) addRelationshipFailure(relationship *graph.Relationship, err error) {
	s.Failures = append(s.Failures, Failure{
		StartExternalID: relationship.StartExternalID,
		EndExternalID:   relationship.EndExternalID,
		Reason:          err.Error(),
	})
}

func (s *Outcome) addStatementFailure(statement string, err error) {
	s.Failures = append(s.Failures, Failure{
		Statement: statement,
		Reason:    err.Error(),
	})
}

// LogValue summarizes the run for structured logging without dumping the failure list.
func (s *Outcome) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("nodes_created", s.NodesCreated),
		slog.Int("nodes_attempted", s.NodesAttempted),
		slog.Int("relationships_created", s.RelationshipsCreated),
		slog.Int("relationships_attempted", s.RelationshipsAttempted),
		slog.Int("statements_run", s.StatementsRun),
		slog.Int("statements_attempted", s.StatementsAttempted),
		slog.Int("failures", len(s.Failures)),
		slog.Uint64("distinct_endpoints", s.DistinctEndpointEstimate()),
	)
}
