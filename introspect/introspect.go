// Package introspect reads structural metadata out of a graph store: the label, relationship type
// and property key vocabularies, per-label property usage sampled from live data, entity counts,
// and small node samples. Everything here runs read-only.
package introspect

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/graphbridge/graphbridge/database"
)

const (
	// Per label, property keys are counted over this many sampled nodes.
	labelSampleSize = 50

	// Only the most common property keys per label are reported.
	labelKeyLimit = 20

	// Per label sampling stops after this many labels to bound introspection cost on wide stores.
	labelScanLimit = 30
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema describes the store's vocabulary. LabelPropertyKeys maps each sampled label to its most
// used property keys in descending usage order.
type Schema struct {
	Labels            []string
	RelationshipTypes []string
	PropertyKeys      []string
	LabelPropertyKeys map[string][]string
}

// Format renders the schema as readable text.
func (s *Schema) Format() string {
	builder := strings.Builder{}

	fmt.Fprintf(&builder, "Node labels: %s\n", strings.Join(s.Labels, ", "))
	fmt.Fprintf(&builder, "Relationship types: %s\n", strings.Join(s.RelationshipTypes, ", "))
	fmt.Fprintf(&builder, "Property keys: %s\n", strings.Join(s.PropertyKeys, ", "))

	if len(s.LabelPropertyKeys) > 0 {
		builder.WriteString("Common properties by label:\n")

		labels := make([]string, 0, len(s.LabelPropertyKeys))

		for label := range s.LabelPropertyKeys {
			labels = append(labels, label)
		}

		sort.Strings(labels)

		for _, label := range labels {
			fmt.Fprintf(&builder, "  %s: %s\n", label, strings.Join(s.LabelPropertyKeys[label], ", "))
		}
	}

	return builder.String()
}

// Counts holds store-wide entity totals.
type Counts struct {
	Nodes         int64
	Relationships int64
}

func (s Counts) String() string {
	return fmt.Sprintf("%d nodes, %d relationships", s.Nodes, s.Relationships)
}

// GetSchema collects the store's schema summary over one read-only session.
func GetSchema(ctx context.Context, db database.Instance) (*Schema, error) {
	schema := &Schema{
		LabelPropertyKeys: map[string][]string{},
	}

	if err := db.Session(ctx, func(ctx context.Context, driver database.Driver) error {
		var err error

		if schema.Labels, err = collectStrings(ctx, driver, "CALL db.labels() YIELD label RETURN label ORDER BY label"); err != nil {
			return err
		}

		if schema.RelationshipTypes, err = collectStrings(ctx, driver, "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType ORDER BY relationshipType"); err != nil {
			return err
		}

		if schema.PropertyKeys, err = collectStrings(ctx, driver, "CALL db.propertyKeys() YIELD propertyKey RETURN propertyKey ORDER BY propertyKey"); err != nil {
			return err
		}

		sampledLabels := schema.Labels

		if len(sampledLabels) > labelScanLimit {
			sampledLabels = sampledLabels[:labelScanLimit]
		}

		for _, label := range sampledLabels {
			if keys, err := sampleLabelKeys(ctx, driver, label); err != nil {
				return err
			} else {
				schema.LabelPropertyKeys[label] = keys
			}
		}

		return nil
	}, database.OptionReadOnly); err != nil {
		return nil, err
	}

	return schema, nil
}

// GetCounts reports the store's node and relationship totals.
func GetCounts(ctx context.Context, db database.Instance) (Counts, error) {
	counts := Counts{}

	if err := db.Session(ctx, func(ctx context.Context, driver database.Driver) error {
		if nodes, err := collectInt(ctx, driver, "MATCH (n) RETURN count(n)"); err != nil {
			return err
		} else {
			counts.Nodes = nodes
		}

		if relationships, err := collectInt(ctx, driver, "MATCH ()-[r]->() RETURN count(r)"); err != nil {
			return err
		} else {
			counts.Relationships = relationships
		}

		return nil
	}, database.OptionReadOnly); err != nil {
		return Counts{}, err
	}

	return counts, nil
}

// SampleNodes fetches up to limit nodes carrying the given label, each rendered as its property
// map. The label is validated before it is quoted into the query.
func SampleNodes(ctx context.Context, db database.Instance, label string, limit int) ([]map[string]any, error) {
	if !identifierPattern.MatchString(label) {
		return nil, fmt.Errorf("%q is not a valid label", label)
	}

	if limit <= 0 {
		return nil, fmt.Errorf("sample limit must be positive but was %d", limit)
	}

	var samples []map[string]any

	if err := db.Session(ctx, func(ctx context.Context, driver database.Driver) error {
		query := fmt.Sprintf("MATCH (n:`%s`) RETURN properties(n) LIMIT $limit", label)

		result := driver.Run(ctx, query, map[string]any{
			"limit": limit,
		})

		defer result.Close(ctx)

		for result.HasNext(ctx) {
			var properties map[string]any

			if err := result.Scan(&properties); err != nil {
				return err
			}

			samples = append(samples, properties)
		}

		return result.Error()
	}, database.OptionReadOnly); err != nil {
		return nil, err
	}

	return samples, nil
}

func sampleLabelKeys(ctx context.Context, driver database.Driver, label string) ([]string, error) {
	if !identifierPattern.MatchString(label) {
		return nil, fmt.Errorf("%q is not a valid label", label)
	}

	query := fmt.Sprintf(
		"MATCH (n:`%s`) WITH n LIMIT %d UNWIND keys(n) AS key RETURN key, count(*) AS uses ORDER BY uses DESC LIMIT %d",
		label, labelSampleSize, labelKeyLimit,
	)

	result := driver.Run(ctx, query, nil)
	defer result.Close(ctx)

	var keys []string

	for result.HasNext(ctx) {
		var (
			key  string
			uses int64
		)

		if err := result.Scan(&key, &uses); err != nil {
			return nil, err
		}

		keys = append(keys, key)
	}

	return keys, result.Error()
}

func collectStrings(ctx context.Context, driver database.Driver, query string) ([]string, error) {
	result := driver.Run(ctx, query, nil)
	defer result.Close(ctx)

	var collected []string

	for result.HasNext(ctx) {
		var value string

		if err := result.Scan(&value); err != nil {
			return nil, err
		}

		collected = append(collected, value)
	}

	return collected, result.Error()
}

func collectInt(ctx context.Context, driver database.Driver, query string) (int64, error) {
	result := driver.Run(ctx, query, nil)
	defer result.Close(ctx)

	if result.HasNext(ctx) {
		var value int64

		if err := result.Scan(&value); err != nil {
			return 0, err
		}

		return value, result.Error()
	}

	return 0, result.Error()
}
