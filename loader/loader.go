// Package loader writes parsed export documents into a graph store. Structured documents import in
// two phases: every node first, then every relationship, with endpoint identity resolved through a
// marker property stamped on each imported node. Script documents replay pre-rendered cypher
// statements one at a time. Both modes tolerate per-entity failure and report what happened in an
// Outcome instead of aborting the run.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gammazero/deque"
	"github.com/graphbridge/graphbridge/database"
	"github.com/graphbridge/graphbridge/export"
	"github.com/graphbridge/graphbridge/graph"
	"github.com/graphbridge/graphbridge/util"
)

// MarkerProperty is stamped on every imported node and carries the node's export identifier. Phase
// two matches relationship endpoints against it. It remains on the imported nodes afterwards unless
// StripMarkers is set.
const MarkerProperty = "_import_id"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options tune one import run.
type Options struct {
	// ClearFirst wipes the store before importing.
	ClearFirst bool

	// StripMarkers removes the marker property from every imported node once phase two finishes.
	StripMarkers bool
}

type Loader struct {
	db      database.Instance
	options Options
}

func New(db database.Instance, options Options) *Loader {
	return &Loader{
		db:      db,
		options: options,
	}
}

// Load imports one parsed export document. The returned error covers run-level problems only, such
// as a failed session or an unloadable document kind. Per-entity problems land in the Outcome.
func (s *Loader) Load(ctx context.Context, document *export.Document) (*Outcome, error) {
	outcome := NewOutcome()

	measureExit := util.SLogMeasureFunction("loader.Load", slog.String("run_id", outcome.RunID))
	defer func() {
		measureExit(slog.Any("outcome", outcome))
	}()

	if document.Kind() == export.DocumentKindTensor {
		return nil, fmt.Errorf("tensor documents describe in-memory datasets and cannot be loaded into a store")
	}

	if s.options.ClearFirst {
		if err := s.Wipe(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.db.Session(ctx, func(ctx context.Context, driver database.Driver) error {
		if document.Kind() == export.DocumentKindScript {
			s.runScript(ctx, driver, document.CypherScript, outcome)
			return nil
		}

		s.createNodes(ctx, driver, document.Nodes, outcome)
		s.createRelationships(ctx, driver, document.Relationships, outcome)

		if s.options.StripMarkers {
			return s.stripMarkers(ctx, driver)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return outcome, nil
}

// Wipe removes every node and relationship in the store.
func (s *Loader) Wipe(ctx context.Context) error {
	return s.db.Session(ctx, func(ctx context.Context, driver database.Driver) error {
		result := driver.Run(ctx, "MATCH (n) DETACH DELETE n", nil)

		if err := result.Error(); err != nil {
			result.Close(ctx)
			return err
		}

		return result.Close(ctx)
	})
}

func (s *Loader) createNodes(ctx context.Context, driver database.Driver, nodes []*graph.Node, outcome *Outcome) {
	for _, node := range nodes {
		outcome.NodesAttempted++

		query, err := nodeCreateQuery(node.Kinds)

		if err != nil {
			outcome.addNodeFailure(node.ExternalID, err)
			continue
		}

		properties := node.Properties.MapOrEmpty()
		properties[MarkerProperty] = node.ExternalID

		result := driver.Run(ctx, query, map[string]any{
			"properties": properties,
		})

		// Store rejections can surface when the result is consumed rather than at Run
		if err := result.Error(); err != nil {
			result.Close(ctx)
			outcome.addNodeFailure(node.ExternalID, err)
		} else if err := result.Close(ctx); err != nil {
			outcome.addNodeFailure(node.ExternalID, err)
		} else {
			outcome.NodesCreated++
		}
	}
}

func (s *Loader) createRelationships(ctx context.Context, driver database.Driver, relationships []*graph.Relationship, outcome *Outcome) {
	var pending deque.Deque[*graph.Relationship]

	for _, relationship := range relationships {
		pending.PushBack(relationship)
	}

	for pending.Len() > 0 {
		relationship := pending.PopFront()

		outcome.RelationshipsAttempted++
		outcome.observeEndpoints(relationship.StartExternalID, relationship.EndExternalID)

		if relationship.StartExternalID == "" || relationship.EndExternalID == "" {
			outcome.addRelationshipFailure(relationship, fmt.Errorf("relationship is missing an endpoint identifier"))
			continue
		}

		query, err := relationshipCreateQuery(relationship.Kind)

		if err != nil {
			outcome.addRelationshipFailure(relationship, err)
			continue
		}

		result := driver.Run(ctx, query, map[string]any{
			"startID":    relationship.StartExternalID,
			"endID":      relationship.EndExternalID,
			"properties": relationship.Properties.MapOrEmpty(),
		})

		matched := result.HasNext(ctx)

		// A server-side failure can surface at Run, while fetching the row, or at consume time.
		// Only a clean result with no row back means the endpoints did not match imported nodes.
		if err := result.Error(); err != nil {
			result.Close(ctx)
			outcome.addRelationshipFailure(relationship, err)
		} else if err := result.Close(ctx); err != nil {
			outcome.addRelationshipFailure(relationship, err)
		} else if !matched {
			outcome.addRelationshipFailure(relationship, fmt.Errorf("one or both endpoints were not found in the store"))
		} else {
			outcome.RelationshipsCreated++
		}
	}
}

func (s *Loader) runScript(ctx context.Context, driver database.Driver, script string, outcome *Outcome) {
	for _, statement := range SplitStatements(script) {
		outcome.StatementsAttempted++

		result := driver.Run(ctx, statement, nil)

		if err := result.Error(); err != nil {
			result.Close(ctx)
			outcome.addStatementFailure(statement, err)
		} else if err := result.Close(ctx); err != nil {
			outcome.addStatementFailure(statement, err)
		} else {
			outcome.StatementsRun++
		}
	}
}

func (s *Loader) stripMarkers(ctx context.Context, driver database.Driver) error {
	query := fmt.Sprintf("MATCH (n) WHERE n.`%s` IS NOT NULL REMOVE n.`%s`", MarkerProperty, MarkerProperty)

	result := driver.Run(ctx, query, nil)

	if err := result.Error(); err != nil {
		result.Close(ctx)
		return err
	}

	return result.Close(ctx)
}

// nodeCreateQuery renders the phase one create statement for a node's kinds. Kinds are validated
// against an identifier pattern and backtick quoted; everything else binds as a parameter.
func nodeCreateQuery(kinds graph.Kinds) (string, error) {
	builder := strings.Builder{}
	builder.WriteString("CREATE (n")

	for _, kind := range kinds {
		if err := validateIdentifier(kind.String()); err != nil {
			return "", err
		}

		builder.WriteString(":`")
		builder.WriteString(kind.String())
		builder.WriteString("`")
	}

	builder.WriteString(") SET n = $properties")
	return builder.String(), nil
}

func relationshipCreateQuery(kind graph.Kind) (string, error) {
	if err := validateIdentifier(kind.String()); err != nil {
		return "", err
	}

	query := fmt.Sprintf(
		"MATCH (start {`%s`: $startID}), (end {`%s`: $endID}) CREATE (start)-[r:`%s`]->(end) SET r = $properties RETURN r",
		MarkerProperty, MarkerProperty, kind.String(),
	)

	return query, nil
}

func validateIdentifier(identifier string) error {
	if !identifierPattern.MatchString(identifier) {
		return fmt.Errorf("%q is not a valid label or relationship type", identifier)
	}

	return nil
}
