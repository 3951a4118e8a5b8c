// Package subject implements typed hierarchical addresses shared by the store and the broker.
package subject

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrInvalidFieldValue = errors.New("invalid subject field value")
	ErrUnboundField      = errors.New("subject field is not bound")
	ErrUnknownField      = errors.New("unknown subject field")
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrInvalidRequest    = errors.New("invalid subject request")
)

const (
	separator    = "."
	wildcardOne  = "*"
	wildcardTail = ">"
)

// Kind is the value domain of a subject field.
type Kind uint8

const (
	String Kind = iota
	Uint
)

// Field describes one position of a subject template.
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

// SQLColumn returns the column the field is stored in.
func (f Field) SQLColumn() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Condition is a column equality used for filtering stored records.
type Condition struct {
	Column string
	Value  any
}

// Template is the static shape of a subject: identifier, dotted prefix and ordered fields.
type Template struct {
	ID            string
	Prefix        string
	Fields        []Field
	Discriminator *Condition

	index map[string]int
}

// NewTemplate validates the definition and indexes fields by name.
func NewTemplate(id, prefix string, discriminator *Condition, fields ...Field) (*Template, error) {
	if id == "" {
		return nil, errors.New("template id is required")
	}
	if prefix == "" {
		return nil, fmt.Errorf("template %s: prefix is required", id)
	}
	for _, segment := range strings.Split(prefix, separator) {
		if err := validateSegment(segment); err != nil {
			return nil, fmt.Errorf("template %s prefix: %w", id, err)
		}
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("template %s: field %d has no name", id, i)
		}
		if _, ok := index[f.Name]; ok {
			return nil, fmt.Errorf("template %s: duplicate field %s", id, f.Name)
		}
		index[f.Name] = i
	}

	return &Template{
		ID:            id,
		Prefix:        prefix,
		Fields:        fields,
		Discriminator: discriminator,
		index:         index,
	}, nil
}

// MustTemplate is NewTemplate for package-level definitions.
func MustTemplate(id, prefix string, discriminator *Condition, fields ...Field) *Template {
	t, err := NewTemplate(id, prefix, discriminator, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// New returns a subject with every field open.
func (t *Template) New() *Subject {
	return &Subject{template: t, values: make([]string, len(t.Fields)), bound: make([]bool, len(t.Fields))}
}

// Wildcard is the pattern matching every concrete subject of the template.
func (t *Template) Wildcard() string {
	return t.New().Wildcard()
}

// QueryAll matches the template prefix at any depth.
func (t *Template) QueryAll() string {
	return t.Prefix + separator + wildcardTail
}

// Segments is the constant number of dotted segments of the template paths.
func (t *Template) Segments() int {
	return strings.Count(t.Prefix, separator) + 1 + len(t.Fields)
}

// Field returns the descriptor of the named field.
func (t *Template) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.Fields[i], true
}

// FromPath binds every field from a concrete path produced by Parse.
func (t *Template) FromPath(path string) (*Subject, error) {
	prefix := t.Prefix + separator
	if !strings.HasPrefix(path, prefix) {
		return nil, fmt.Errorf("path %q does not belong to %s: %w", path, t.ID, ErrInvalidFieldValue)
	}
	segments := strings.Split(strings.TrimPrefix(path, prefix), separator)
	if len(segments) != len(t.Fields) {
		return nil, fmt.Errorf("path %q has %d fields, want %d: %w", path, len(segments), len(t.Fields), ErrInvalidFieldValue)
	}

	s := t.New()
	for i, segment := range segments {
		value, err := normalize(t.Fields[i], segment)
		if err != nil {
			return nil, err
		}
		s.values[i] = value
		s.bound[i] = true
	}
	return s, nil
}

func validateSegment(value string) error {
	if value == "" {
		return fmt.Errorf("empty value: %w", ErrInvalidFieldValue)
	}
	if strings.ContainsAny(value, separator+wildcardOne+wildcardTail) {
		return fmt.Errorf("value %q contains a reserved character: %w", value, ErrInvalidFieldValue)
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("value %q contains whitespace: %w", value, ErrInvalidFieldValue)
	}
	return nil
}
