package export

import (
	"fmt"
)

func parseTensorDocument(topLevel map[string]any) (*Document, error) {
	tensor := &TensorDocument{
		NodeFeatures: map[string][][]float64{},
		NodeLabels:   map[string][]string{},
		EdgeIndices:  map[string][][]int64{},
		EdgeFeatures: map[string][][]float64{},
	}

	if rawNodeFeatures, hasNodeFeatures := topLevel["nodeFeatures"]; hasNodeFeatures {
		featureMap, isMap := rawNodeFeatures.(map[string]any)

		if !isMap {
			return nil, malformed("nodeFeatures must be an object", nil)
		}

		for nodeType, rawRows := range featureMap {
			if rows, err := toFloatMatrix(rawRows); err != nil {
				return nil, malformed(fmt.Sprintf("nodeFeatures for type %s", nodeType), err)
			} else {
				tensor.NodeFeatures[nodeType] = rows
			}
		}
	}

	if rawNodeLabels, hasNodeLabels := topLevel["nodeLabels"]; hasNodeLabels {
		labelMap, isMap := rawNodeLabels.(map[string]any)

		if !isMap {
			return nil, malformed("nodeLabels must be an object", nil)
		}

		for nodeType, rawLabels := range labelMap {
			if labels, err := toStringSlice(rawLabels); err != nil {
				return nil, malformed(fmt.Sprintf("nodeLabels for type %s", nodeType), err)
			} else {
				tensor.NodeLabels[nodeType] = labels
			}
		}
	}

	if rawEdgeIndices, hasEdgeIndices := topLevel["edgeIndices"]; hasEdgeIndices {
		indexMap, isMap := rawEdgeIndices.(map[string]any)

		if !isMap {
			return nil, malformed("edgeIndices must be an object", nil)
		}

		for triplet, rawIndices := range indexMap {
			if indices, err := toIntMatrix(rawIndices); err != nil {
				return nil, malformed(fmt.Sprintf("edgeIndices for triplet %s", triplet), err)
			} else {
				tensor.EdgeIndices[triplet] = indices
			}
		}
	}

	if rawEdgeFeatures, hasEdgeFeatures := topLevel["edgeFeatures"]; hasEdgeFeatures {
		featureMap, isMap := rawEdgeFeatures.(map[string]any)

		if !isMap {
			return nil, malformed("edgeFeatures must be an object", nil)
		}

		for triplet, rawRows := range featureMap {
			if rows, err := toFloatMatrix(rawRows); err != nil {
				return nil, malformed(fmt.Sprintf("edgeFeatures for triplet %s", triplet), err)
			} else {
				tensor.EdgeFeatures[triplet] = rows
			}
		}
	}

	return &Document{
		Tensor: tensor,
	}, nil
}

func toFloatMatrix(rawValue any) ([][]float64, error) {
	rawRows, isList := rawValue.([]any)

	if !isList {
		return nil, fmt.Errorf("expected a list of rows but found %T", rawValue)
	}

	rows := make([][]float64, len(rawRows))

	for rowIdx, rawRow := range rawRows {
		rawEntries, isList := rawRow.([]any)

		if !isList {
			return nil, fmt.Errorf("expected a list at row %d but found %T", rowIdx, rawRow)
		}

		row := make([]float64, len(rawEntries))

		for colIdx, rawEntry := range rawEntries {
			switch typedEntry := rawEntry.(type) {
			case float64:
				row[colIdx] = typedEntry
			case int64:
				row[colIdx] = float64(typedEntry)
			default:
				return nil, fmt.Errorf("expected a number at row %d column %d but found %T", rowIdx, colIdx, rawEntry)
			}
		}

		rows[rowIdx] = row
	}

	return rows, nil
}

func toIntMatrix(rawValue any) ([][]int64, error) {
	rawRows, isList := rawValue.([]any)

	if !isList {
		return nil, fmt.Errorf("expected a list of rows but found %T", rawValue)
	}

	rows := make([][]int64, len(rawRows))

	for rowIdx, rawRow := range rawRows {
		rawEntries, isList := rawRow.([]any)

		if !isList {
			return nil, fmt.Errorf("expected a list at row %d but found %T", rowIdx, rawRow)
		}

		row := make([]int64, len(rawEntries))

		for colIdx, rawEntry := range rawEntries {
			switch typedEntry := rawEntry.(type) {
			case int64:
				row[colIdx] = typedEntry
			case float64:
				if typedEntry != float64(int64(typedEntry)) {
					return nil, fmt.Errorf("expected an integer at row %d column %d but found %v", rowIdx, colIdx, typedEntry)
				}

				row[colIdx] = int64(typedEntry)
			default:
				return nil, fmt.Errorf("expected an integer at row %d column %d but found %T", rowIdx, colIdx, rawEntry)
			}
		}

		rows[rowIdx] = row
	}

	return rows, nil
}
