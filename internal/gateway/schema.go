package gateway

import (
	"fmt"
	"strconv"
)

// FieldType enumerates the input field kinds a schema can describe.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldStringList
)

// Field is one typed input constraint. Zero-value constraints are inactive.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Default  interface{}

	// String constraints
	ExactLen int

	// Int constraints (inclusive, active when Max > Min)
	Min int
	Max int

	// List constraints
	MinItems int
	MaxItems int
}

// Schema is an ordered set of input fields.
type Schema []Field

// Input holds validated, typed operation input.
type Input map[string]interface{}

// String returns the named string field, or "" when absent.
func (in Input) String(name string) string {
	s, _ := in[name].(string)
	return s
}

// Int returns the named int field, or 0 when absent.
func (in Input) Int(name string) int {
	n, _ := in[name].(int)
	return n
}

// StringList returns the named string-list field, or nil when absent.
func (in Input) StringList(name string) []string {
	l, _ := in[name].([]string)
	return l
}

// Validate checks raw values against the schema and returns typed input.
// Missing optional fields take their default; the first violated
// constraint fails the whole input.
func (s Schema) Validate(raw map[string]interface{}) (Input, error) {
	in := make(Input, len(s))

	for _, f := range s {
		value, present := raw[f.Name]
		if !present || value == nil || value == "" {
			if f.Required {
				return nil, &ValidationError{Field: f.Name, Reason: "required"}
			}
			if f.Default != nil {
				in[f.Name] = f.Default
			}
			continue
		}

		typed, err := f.coerce(value)
		if err != nil {
			return nil, err
		}
		in[f.Name] = typed
	}

	return in, nil
}

func (f Field) coerce(value interface{}) (interface{}, error) {
	switch f.Type {
	case FieldString:
		s, ok := value.(string)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: "must be a string"}
		}
		if f.ExactLen > 0 && len(s) != f.ExactLen {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: fmt.Sprintf("must be exactly %d characters", f.ExactLen),
			}
		}
		return s, nil

	case FieldInt:
		n, err := toInt(value)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Reason: "must be an integer"}
		}
		if f.Max > f.Min && (n < f.Min || n > f.Max) {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: fmt.Sprintf("must be between %d and %d", f.Min, f.Max),
			}
		}
		return n, nil

	case FieldStringList:
		list, err := toStringList(value)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Reason: "must be a list of strings"}
		}
		if f.MinItems > 0 && len(list) < f.MinItems {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: fmt.Sprintf("must contain at least %d items", f.MinItems),
			}
		}
		if f.MaxItems > 0 && len(list) > f.MaxItems {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: fmt.Sprintf("must contain at most %d items", f.MaxItems),
			}
		}
		return list, nil

	default:
		return nil, &ValidationError{Field: f.Name, Reason: "unsupported field type"}
	}
}

// toInt accepts query-string and JSON representations of an integer.
func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("not an integer: %T", value)
	}
}

func toStringList(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is not a string", i)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a list: %T", value)
	}
}
