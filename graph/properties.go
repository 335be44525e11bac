package graph

import (
	"fmt"
	"sort"
	"time"
)

// PropertyMap is a map of symbol keys to scalar values.
type PropertyMap = map[String]any

type propertyValue struct {
	key   string
	value any
}

func (s propertyValue) IsNil() bool {
	return s.value == nil
}

func (s propertyValue) Any() any {
	return s.value
}

func (s propertyValue) typeError(expected string) error {
	if s.value == nil {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, s.key)
	}

	return fmt.Errorf("property %s: unable to negotiate type %T into %s", s.key, s.value, expected)
}

func (s propertyValue) Bool() (bool, error) {
	if typed, typeOK := s.value.(bool); typeOK {
		return typed, nil
	}

	return false, s.typeError("bool")
}

func (s propertyValue) Int() (int, error) {
	value, err := s.Int64()
	return int(value), err
}

func (s propertyValue) Int64() (int64, error) {
	switch typed := s.value.(type) {
	case int:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case float64:
		return int64(typed), nil
	default:
		return 0, s.typeError("int64")
	}
}

func (s propertyValue) Uint64() (uint64, error) {
	switch typed := s.value.(type) {
	case uint64:
		return typed, nil
	case int:
		return uint64(typed), nil
	case int64:
		return uint64(typed), nil
	default:
		return 0, s.typeError("uint64")
	}
}

func (s propertyValue) Float64() (float64, error) {
	switch typed := s.value.(type) {
	case float32:
		return float64(typed), nil
	case float64:
		return typed, nil
	case int:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	default:
		return 0, s.typeError("float64")
	}
}

func (s propertyValue) String() (string, error) {
	if typed, typeOK := s.value.(string); typeOK {
		return typed, nil
	}

	return "", s.typeError("string")
}

func (s propertyValue) StringSlice() ([]string, error) {
	switch typed := s.value.(type) {
	case []string:
		return typed, nil

	case []any:
		strs := make([]string, len(typed))

		for idx, rawValue := range typed {
			if str, typeOK := rawValue.(string); !typeOK {
				return nil, s.typeError("[]string")
			} else {
				strs[idx] = str
			}
		}

		return strs, nil

	default:
		return nil, s.typeError("[]string")
	}
}

func (s propertyValue) Time() (time.Time, error) {
	switch typed := s.value.(type) {
	case time.Time:
		return typed, nil
	case string:
		return time.Parse(time.RFC3339, typed)
	default:
		return time.Time{}, s.typeError("time.Time")
	}
}

// Properties is a mutable bag of named scalar values carried by nodes and relationships. Mutations
// are tracked so that store adapters can distinguish modified and deleted keys from the rest of
// the bag.
type Properties struct {
	Map      map[string]any
	Modified map[string]struct{}
	Deleted  map[string]struct{}
}

func NewProperties() *Properties {
	return &Properties{}
}

func AsProperties[T PropertyMap | map[string]any](rawStore T) *Properties {
	var store map[string]any

	switch typedStore := any(rawStore).(type) {
	case PropertyMap:
		store = make(map[string]any, len(typedStore))

		for key, value := range typedStore {
			store[key.String()] = value
		}

	case map[string]any:
		store = typedStore
	}

	return &Properties{
		Map:      store,
		Modified: make(map[string]struct{}),
		Deleted:  make(map[string]struct{}),
	}
}

func (s *Properties) Len() int {
	return len(s.Map)
}

func (s *Properties) Exists(key string) bool {
	_, found := s.Map[key]
	return found
}

// Keys returns the sorted property keys of the bag, excluding any keys present in the ignored set.
func (s *Properties) Keys(ignored map[string]struct{}) []string {
	var keys []string

	for key := range s.Map {
		if _, ignore := ignored[key]; !ignore {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys
}

func (s *Properties) Get(key string) PropertyValue {
	if s.Map == nil {
		return propertyValue{key: key}
	}

	return propertyValue{
		key:   key,
		value: s.Map[key],
	}
}

func (s *Properties) GetOrDefault(key string, defaultValue any) PropertyValue {
	if value, found := s.Map[key]; found {
		return propertyValue{key: key, value: value}
	}

	return propertyValue{key: key, value: defaultValue}
}

func (s *Properties) Set(key string, value any) *Properties {
	if s.Map == nil {
		s.Map = map[string]any{}
	}

	if s.Modified == nil {
		s.Modified = map[string]struct{}{}
	}

	s.Map[key] = value
	s.Modified[key] = struct{}{}

	delete(s.Deleted, key)
	return s
}

func (s *Properties) SetAll(values map[string]any) *Properties {
	for key, value := range values {
		s.Set(key, value)
	}

	return s
}

func (s *Properties) Delete(key string) *Properties {
	if _, found := s.Map[key]; found {
		if s.Deleted == nil {
			s.Deleted = map[string]struct{}{}
		}

		delete(s.Map, key)
		delete(s.Modified, key)

		s.Deleted[key] = struct{}{}
	}

	return s
}

func (s *Properties) ModifiedProperties() map[string]any {
	modified := make(map[string]any, len(s.Modified))

	for key := range s.Modified {
		if value, found := s.Map[key]; found {
			modified[key] = value
		}
	}

	return modified
}

func (s *Properties) DeletedProperties() []string {
	var deleted []string

	for key := range s.Deleted {
		deleted = append(deleted, key)
	}

	return deleted
}

// MapOrEmpty returns the backing map of the bag, allocating an empty map when the bag has never
// been written to.
func (s *Properties) MapOrEmpty() map[string]any {
	if s.Map == nil {
		return map[string]any{}
	}

	return s.Map
}

func (s *Properties) Clone() *Properties {
	clone := &Properties{
		Map:      make(map[string]any, len(s.Map)),
		Modified: make(map[string]struct{}, len(s.Modified)),
		Deleted:  make(map[string]struct{}, len(s.Deleted)),
	}

	for key, value := range s.Map {
		clone.Map[key] = value
	}

	for key := range s.Modified {
		clone.Modified[key] = struct{}{}
	}

	for key := range s.Deleted {
		clone.Deleted[key] = struct{}{}
	}

	return clone
}

func (s *Properties) Merge(other *Properties) {
	for key, value := range other.Map {
		s.Set(key, value)
	}

	for key := range other.Deleted {
		s.Delete(key)
	}
}
