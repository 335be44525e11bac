// Package hetero assembles tensor-mode export documents into an in-memory heterogeneous graph
// dataset: dense per-type feature matrices and per-triplet edge index buffers, validated for shape
// consistency so downstream consumers can index without bounds checks.
package hetero

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphbridge/graphbridge/cardinality"
	"github.com/graphbridge/graphbridge/export"
)

// ShapeMismatchError reports a tensor document whose sections disagree with each other: ragged
// feature rows, malformed edge index matrices, or indices that reference rows that do not exist.
type ShapeMismatchError struct {
	Section string
	Key     string
	Reason  string
}

func (s *ShapeMismatchError) Error() string {
	if s.Key != "" {
		return fmt.Sprintf("shape mismatch in %s[%s]: %s", s.Section, s.Key, s.Reason)
	}

	return fmt.Sprintf("shape mismatch in %s: %s", s.Section, s.Reason)
}

func shapeMismatch(section, key, format string, args ...any) *ShapeMismatchError {
	return &ShapeMismatchError{
		Section: section,
		Key:     key,
		Reason:  fmt.Sprintf(format, args...),
	}
}

// NodeGroup holds the feature matrix for one node type as a dense row major buffer. Labels, when
// present, carry one display string per row.
type NodeGroup struct {
	Type     string
	Rows     int
	Columns  int
	Features []float64
	Labels   []string
}

// Row returns a view of one feature row.
func (s *NodeGroup) Row(idx int) []float64 {
	return s.Features[idx*s.Columns : (idx+1)*s.Columns]
}

// EdgeGroup holds the edges of one (source type, relationship type, destination type) triplet.
// SourceRows and DestinationRows are parallel: edge i runs from SourceRows[i] in the source group
// to DestinationRows[i] in the destination group. Attrs, when present, is a dense row major edge
// attribute matrix with one row per edge.
type EdgeGroup struct {
	SourceType       string
	RelationshipType string
	DestinationType  string

	SourceRows      []int64
	DestinationRows []int64

	AttrColumns int
	Attrs       []float64
}

func (s *EdgeGroup) Count() int {
	return len(s.SourceRows)
}

// Triplet renders the group's comma joined key.
func (s *EdgeGroup) Triplet() string {
	return strings.Join([]string{s.SourceType, s.RelationshipType, s.DestinationType}, ",")
}

// Dataset is one assembled heterogeneous graph.
type Dataset struct {
	NodeGroups map[string]*NodeGroup
	EdgeGroups map[string]*EdgeGroup

	referenced map[string]cardinality.Duplex
}

// ReferencedRows returns the set of rows of the given node type that at least one edge endpoint
// references.
func (s *Dataset) ReferencedRows(nodeType string) cardinality.Duplex {
	if duplex, tracked := s.referenced[nodeType]; tracked {
		return duplex.Clone()
	}

	return cardinality.NewBitmap64()
}

// Assemble validates a tensor document and builds the dataset from it.
func Assemble(document *export.TensorDocument) (*Dataset, error) {
	dataset := &Dataset{
		NodeGroups: map[string]*NodeGroup{},
		EdgeGroups: map[string]*EdgeGroup{},
		referenced: map[string]cardinality.Duplex{},
	}

	if err := dataset.assembleNodeGroups(document); err != nil {
		return nil, err
	}

	if err := dataset.assembleEdgeGroups(document); err != nil {
		return nil, err
	}

	return dataset, nil
}

func (s *Dataset) assembleNodeGroups(document *export.TensorDocument) error {
	for nodeType, rows := range document.NodeFeatures {
		group := &NodeGroup{
			Type: nodeType,
			Rows: len(rows),
		}

		if len(rows) > 0 {
			group.Columns = len(rows[0])
			group.Features = make([]float64, 0, group.Rows*group.Columns)
		}

		for rowIdx, row := range rows {
			if len(row) != group.Columns {
				return shapeMismatch("nodeFeatures", nodeType, "row %d has %d columns where the first row has %d", rowIdx, len(row), group.Columns)
			}

			group.Features = append(group.Features, row...)
		}

		s.NodeGroups[nodeType] = group
	}

	for nodeType, labels := range document.NodeLabels {
		if group, hasGroup := s.NodeGroups[nodeType]; hasGroup {
			if len(labels) != group.Rows {
				return shapeMismatch("nodeLabels", nodeType, "%d labels for %d feature rows", len(labels), group.Rows)
			}

			group.Labels = labels
		} else {
			// Labels without features still define the group's row count
			s.NodeGroups[nodeType] = &NodeGroup{
				Type:   nodeType,
				Rows:   len(labels),
				Labels: labels,
			}
		}
	}

	return nil
}

func (s *Dataset) assembleEdgeGroups(document *export.TensorDocument) error {
	for triplet, indices := range document.EdgeIndices {
		parts := strings.Split(triplet, ",")

		if len(parts) != 3 {
			return shapeMismatch("edgeIndices", triplet, "triplet keys must be src,relationship,dst")
		}

		group := &EdgeGroup{
			SourceType:       parts[0],
			RelationshipType: parts[1],
			DestinationType:  parts[2],
		}

		switch len(indices) {
		case 0:
			// An empty matrix is an edge group with no edges

		case 2:
			if len(indices[0]) != len(indices[1]) {
				return shapeMismatch("edgeIndices", triplet, "source row has %d entries and destination row has %d", len(indices[0]), len(indices[1]))
			}

			group.SourceRows = indices[0]
			group.DestinationRows = indices[1]

		default:
			return shapeMismatch("edgeIndices", triplet, "index matrices must have exactly 2 rows but this one has %d", len(indices))
		}

		if err := s.checkEndpoints(triplet, group); err != nil {
			return err
		}

		if attrs, hasAttrs := document.EdgeFeatures[triplet]; hasAttrs && len(attrs) > 0 {
			if len(attrs) != group.Count() {
				return shapeMismatch("edgeFeatures", triplet, "%d attribute rows for %d edges", len(attrs), group.Count())
			}

			group.AttrColumns = len(attrs[0])
			group.Attrs = make([]float64, 0, len(attrs)*group.AttrColumns)

			for rowIdx, row := range attrs {
				if len(row) != group.AttrColumns {
					return shapeMismatch("edgeFeatures", triplet, "row %d has %d columns where the first row has %d", rowIdx, len(row), group.AttrColumns)
				}

				group.Attrs = append(group.Attrs, row...)
			}
		}

		s.EdgeGroups[triplet] = group
	}

	for triplet := range document.EdgeFeatures {
		if _, hasGroup := s.EdgeGroups[triplet]; !hasGroup {
			if len(document.EdgeFeatures[triplet]) > 0 {
				return shapeMismatch("edgeFeatures", triplet, "attributes reference a triplet with no edge indices")
			}
		}
	}

	return nil
}

func (s *Dataset) checkEndpoints(triplet string, group *EdgeGroup) error {
	var (
		sourceGroup, hasSource    = s.NodeGroups[group.SourceType]
		destinationGroup, hasDest = s.NodeGroups[group.DestinationType]
	)

	if group.Count() == 0 {
		return nil
	}

	if !hasSource {
		return shapeMismatch("edgeIndices", triplet, "source type %s has no node group", group.SourceType)
	}

	if !hasDest {
		return shapeMismatch("edgeIndices", triplet, "destination type %s has no node group", group.DestinationType)
	}

	for idx := range group.SourceRows {
		var (
			sourceRow      = group.SourceRows[idx]
			destinationRow = group.DestinationRows[idx]
		)

		if sourceRow < 0 || sourceRow >= int64(sourceGroup.Rows) {
			return shapeMismatch("edgeIndices", triplet, "edge %d references source row %d of %d", idx, sourceRow, sourceGroup.Rows)
		}

		if destinationRow < 0 || destinationRow >= int64(destinationGroup.Rows) {
			return shapeMismatch("edgeIndices", triplet, "edge %d references destination row %d of %d", idx, destinationRow, destinationGroup.Rows)
		}

		s.trackReference(group.SourceType, uint64(sourceRow))
		s.trackReference(group.DestinationType, uint64(destinationRow))
	}

	return nil
}

func (s *Dataset) trackReference(nodeType string, row uint64) {
	duplex, tracked := s.referenced[nodeType]

	if !tracked {
		duplex = cardinality.NewBitmap64()
		s.referenced[nodeType] = duplex
	}

	duplex.Add(row)
}

// Summary renders a readable account of the dataset's shapes, one line per group in sorted order.
func (s *Dataset) Summary() string {
	builder := strings.Builder{}

	nodeTypes := make([]string, 0, len(s.NodeGroups))

	for nodeType := range s.NodeGroups {
		nodeTypes = append(nodeTypes, nodeType)
	}

	sort.Strings(nodeTypes)

	for _, nodeType := range nodeTypes {
		group := s.NodeGroups[nodeType]
		fmt.Fprintf(&builder, "%s: %d nodes x %d features", nodeType, group.Rows, group.Columns)

		if referenced, tracked := s.referenced[nodeType]; tracked {
			fmt.Fprintf(&builder, " (%d referenced by edges)", referenced.Cardinality())
		}

		builder.WriteString("\n")
	}

	triplets := make([]string, 0, len(s.EdgeGroups))

	for triplet := range s.EdgeGroups {
		triplets = append(triplets, triplet)
	}

	sort.Strings(triplets)

	for _, triplet := range triplets {
		group := s.EdgeGroups[triplet]
		fmt.Fprintf(&builder, "(%s)-[%s]->(%s): %d edges", group.SourceType, group.RelationshipType, group.DestinationType, group.Count())

		if group.AttrColumns > 0 {
			fmt.Fprintf(&builder, " x %d attributes", group.AttrColumns)
		}

		builder.WriteString("\n")
	}

	return builder.String()
}
