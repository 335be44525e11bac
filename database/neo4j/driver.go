package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/graphbridge/graphbridge/database"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type sessionResult struct {
	result     neo4j.ResultWithContext
	nextRecord *neo4j.Record
	err        error
}

func newResult(result neo4j.ResultWithContext, err error) database.Result {
	return &sessionResult{
		result: result,
		err:    err,
	}
}

func (s *sessionResult) Keys() []string {
	if s.nextRecord == nil {
		return nil
	}

	return s.nextRecord.Keys
}

func (s *sessionResult) Values() []any {
	if s.nextRecord == nil {
		return nil
	}

	return s.nextRecord.Values
}

func (s *sessionResult) HasNext(ctx context.Context) bool {
	if s.err != nil {
		return false
	}

	hasNext := s.result.NextRecord(ctx, &s.nextRecord)

	if !hasNext {
		s.err = s.result.Err()
	}

	return hasNext
}

func (s *sessionResult) Scan(scanTargets ...any) error {
	if s.err != nil {
		return s.err
	}

	if len(scanTargets) != len(s.nextRecord.Values) {
		return fmt.Errorf("expected to scan %d values but received %d to map to", len(s.nextRecord.Values), len(scanTargets))
	}

	for idx, nextTarget := range scanTargets {
		nextValue := s.nextRecord.Values[idx]

		if !mapValue(nextValue, nextTarget) {
			return fmt.Errorf("unable to scan type %T into target type %T", nextValue, nextTarget)
		}
	}

	return nil
}

func (s *sessionResult) Close(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}

	_, err := s.result.Consume(ctx)
	return err
}

func (s *sessionResult) Error() error {
	return s.err
}

// mapValue negotiates a bolt record value into the given scan target.
func mapValue(value, target any) bool {
	switch typedTarget := target.(type) {
	case *any:
		*typedTarget = value
		return true

	case *string:
		if typedValue, typeOK := value.(string); typeOK {
			*typedTarget = typedValue
			return true
		}

	case *int64:
		switch typedValue := value.(type) {
		case int64:
			*typedTarget = typedValue
			return true
		case float64:
			*typedTarget = int64(typedValue)
			return true
		}

	case *int:
		if typedValue, typeOK := value.(int64); typeOK {
			*typedTarget = int(typedValue)
			return true
		}

	case *float64:
		switch typedValue := value.(type) {
		case float64:
			*typedTarget = typedValue
			return true
		case int64:
			*typedTarget = float64(typedValue)
			return true
		}

	case *bool:
		if typedValue, typeOK := value.(bool); typeOK {
			*typedTarget = typedValue
			return true
		}

	case *time.Time:
		if typedValue, typeOK := value.(time.Time); typeOK {
			*typedTarget = typedValue
			return true
		}

	case *[]string:
		if typedValue, typeOK := value.([]any); typeOK {
			strs := make([]string, len(typedValue))

			for idx, rawValue := range typedValue {
				if str, typeOK := rawValue.(string); !typeOK {
					return false
				} else {
					strs[idx] = str
				}
			}

			*typedTarget = strs
			return true
		}

	case *map[string]any:
		switch typedValue := value.(type) {
		case map[string]any:
			*typedTarget = typedValue
			return true
		case neo4j.Node:
			*typedTarget = typedValue.Props
			return true
		}
	}

	return false
}

type sessionDriver struct {
	session neo4j.SessionWithContext
}

func (s *sessionDriver) Run(ctx context.Context, query string, parameters map[string]any) database.Result {
	internalResult, err := s.session.Run(ctx, query, parameters, neo4j.WithTxTimeout(DefaultTransactionTimeout))
	return newResult(internalResult, err)
}
