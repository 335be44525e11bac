// Package export parses tool-produced graph export documents into the shapes the rest of the
// system consumes: structured node/relationship records, a pre-rendered cypher script, or
// per-type tensor buffers.
package export

import (
	"fmt"
	"strconv"

	"github.com/graphbridge/graphbridge/graph"
	"github.com/ohler55/ojg/oj"
)

var (
	// DefaultNodeKind is substituted when an exported node declares no labels.
	DefaultNodeKind = graph.StringKind("Node")

	// DefaultRelationshipKind is substituted when an exported relationship declares no type.
	DefaultRelationshipKind = graph.StringKind("RELATED_TO")
)

// MalformedExportError reports a structurally invalid export document. It is fatal: no store
// mutation happens once it is returned.
type MalformedExportError struct {
	Reason string
	Err    error
}

func (s *MalformedExportError) Error() string {
	if s.Err != nil {
		return fmt.Sprintf("malformed export: %s: %v", s.Reason, s.Err)
	}

	return fmt.Sprintf("malformed export: %s", s.Reason)
}

func (s *MalformedExportError) Unwrap() error {
	return s.Err
}

func malformed(reason string, err error) *MalformedExportError {
	return &MalformedExportError{
		Reason: reason,
		Err:    err,
	}
}

type DocumentKind int

const (
	DocumentKindStructured DocumentKind = iota
	DocumentKindScript
	DocumentKindTensor
)

func (s DocumentKind) String() string {
	switch s {
	case DocumentKindStructured:
		return "structured"
	case DocumentKindScript:
		return "script"
	case DocumentKindTensor:
		return "tensor"
	default:
		return "unknown"
	}
}

// TensorDocument is the tensor-mode shape of an export: per-type feature rows and per-triplet
// index pairs, with optional row labels and edge features. Triplet keys are comma-joined
// "srcType,relType,dstType" strings.
type TensorDocument struct {
	NodeFeatures map[string][][]float64
	NodeLabels   map[string][]string
	EdgeIndices  map[string][][]int64
	EdgeFeatures map[string][][]float64
}

// Document is one parsed export. Exactly one of the three modes is populated.
type Document struct {
	Nodes         []*graph.Node
	Relationships []*graph.Relationship
	CypherScript  string
	Tensor        *TensorDocument
}

func (s *Document) Kind() DocumentKind {
	switch {
	case s.Tensor != nil:
		return DocumentKindTensor
	case len(s.Nodes) > 0 || len(s.Relationships) > 0:
		return DocumentKindStructured
	case s.CypherScript != "":
		return DocumentKindScript
	default:
		return DocumentKindStructured
	}
}

// Parse decodes a serialized export document. Which mode the document is in is decided by the
// top-level fields present; a document with none of the recognized fields is malformed. A document
// carrying both structured entities and a cypher script parses as structured with the script
// preserved, so callers can still choose to replay the script instead.
func Parse(data []byte) (*Document, error) {
	rawDocument, err := oj.Parse(data)

	if err != nil {
		return nil, malformed("document is not well-formed JSON", err)
	}

	topLevel, isMap := rawDocument.(map[string]any)

	if !isMap {
		return nil, malformed(fmt.Sprintf("expected a JSON object at the top level but found %T", rawDocument), nil)
	}

	var (
		_, hasNodes         = topLevel["nodes"]
		_, hasRelationships = topLevel["relationships"]
		_, hasScript        = topLevel["cypherScript"]
		_, hasNodeFeatures  = topLevel["nodeFeatures"]
		_, hasEdgeIndices   = topLevel["edgeIndices"]
	)

	switch {
	case hasNodeFeatures || hasEdgeIndices:
		return parseTensorDocument(topLevel)

	case hasNodes || hasRelationships:
		return parseStructuredDocument(topLevel)

	case hasScript:
		if script, typeOK := topLevel["cypherScript"].(string); !typeOK {
			return nil, malformed("cypherScript must be a string", nil)
		} else {
			return &Document{
				CypherScript: script,
			}, nil
		}

	default:
		return nil, malformed("document has none of the recognized top-level fields", nil)
	}
}

func parseStructuredDocument(topLevel map[string]any) (*Document, error) {
	document := &Document{}

	if rawScript, hasScript := topLevel["cypherScript"]; hasScript {
		if script, typeOK := rawScript.(string); !typeOK {
			return nil, malformed("cypherScript must be a string", nil)
		} else {
			document.CypherScript = script
		}
	}

	if rawNodes, hasNodes := topLevel["nodes"]; hasNodes {
		nodeList, isList := rawNodes.([]any)

		if !isList {
			return nil, malformed("nodes must be a list", nil)
		}

		for idx, rawNode := range nodeList {
			if node, err := parseNode(rawNode); err != nil {
				return nil, malformed(fmt.Sprintf("node at index %d", idx), err)
			} else {
				document.Nodes = append(document.Nodes, node)
			}
		}
	}

	if rawRelationships, hasRelationships := topLevel["relationships"]; hasRelationships {
		relationshipList, isList := rawRelationships.([]any)

		if !isList {
			return nil, malformed("relationships must be a list", nil)
		}

		for idx, rawRelationship := range relationshipList {
			if relationship, err := parseRelationship(rawRelationship); err != nil {
				return nil, malformed(fmt.Sprintf("relationship at index %d", idx), err)
			} else {
				document.Relationships = append(document.Relationships, relationship)
			}
		}
	}

	return document, nil
}

func parseNode(rawNode any) (*graph.Node, error) {
	nodeMap, isMap := rawNode.(map[string]any)

	if !isMap {
		return nil, fmt.Errorf("expected an object but found %T", rawNode)
	}

	externalID, hasID := formatExternalID(nodeMap["id"])

	if !hasID {
		return nil, fmt.Errorf("node has no usable id field: %v", nodeMap["id"])
	}

	kinds := graph.Kinds{DefaultNodeKind}

	if rawLabels, hasLabels := nodeMap["labels"]; hasLabels {
		if labels, err := toStringSlice(rawLabels); err != nil {
			return nil, fmt.Errorf("labels: %w", err)
		} else if len(labels) > 0 {
			kinds = graph.StringsToKinds(labels)
		}
	}

	if properties, err := parseProperties(nodeMap["properties"]); err != nil {
		return nil, err
	} else {
		return graph.NewNode(externalID, properties, kinds...), nil
	}
}

func parseRelationship(rawRelationship any) (*graph.Relationship, error) {
	relationshipMap, isMap := rawRelationship.(map[string]any)

	if !isMap {
		return nil, fmt.Errorf("expected an object but found %T", rawRelationship)
	}

	kind := DefaultRelationshipKind

	if rawKind, hasKind := relationshipMap["type"]; hasKind {
		if kindStr, typeOK := rawKind.(string); !typeOK {
			return nil, fmt.Errorf("type must be a string but found %T", rawKind)
		} else if kindStr != "" {
			kind = graph.StringKind(kindStr)
		}
	}

	// Missing endpoints are preserved as empty identifiers. They become per-relationship import
	// failures rather than parse failures.
	startExternalID, _ := formatExternalID(relationshipMap["startNodeId"])
	endExternalID, _ := formatExternalID(relationshipMap["endNodeId"])

	if properties, err := parseProperties(relationshipMap["properties"]); err != nil {
		return nil, err
	} else {
		return graph.NewRelationship(startExternalID, endExternalID, properties, kind), nil
	}
}

func parseProperties(rawProperties any) (*graph.Properties, error) {
	if rawProperties == nil {
		return graph.NewProperties(), nil
	}

	if propertyMap, isMap := rawProperties.(map[string]any); !isMap {
		return nil, fmt.Errorf("properties must be an object but found %T", rawProperties)
	} else {
		return graph.AsProperties(propertyMap), nil
	}
}

// formatExternalID normalizes an export identifier to a string. Export producers emit both string
// and numeric identifiers.
func formatExternalID(rawID any) (string, bool) {
	switch typedID := rawID.(type) {
	case string:
		return typedID, typedID != ""
	case int64:
		return strconv.FormatInt(typedID, 10), true
	case float64:
		return strconv.FormatFloat(typedID, 'f', -1, 64), true
	default:
		return "", false
	}
}

func toStringSlice(rawValue any) ([]string, error) {
	rawList, isList := rawValue.([]any)

	if !isList {
		return nil, fmt.Errorf("expected a list but found %T", rawValue)
	}

	strs := make([]string, len(rawList))

	for idx, rawEntry := range rawList {
		if str, typeOK := rawEntry.(string); !typeOK {
			return nil, fmt.Errorf("expected a string at index %d but found %T", idx, rawEntry)
		} else {
			strs[idx] = str
		}
	}

	return strs, nil
}
