package subject

import (
	"fmt"
	"strconv"
	"strings"
)

// Subject is a template with a value bound to some of its fields.
// A Subject is never mutated; With returns a modified copy.
type Subject struct {
	template *Template
	values   []string
	bound    []bool
}

// Template returns the template the subject was created from.
func (s *Subject) Template() *Template {
	return s.template
}

// ID returns the template identifier.
func (s *Subject) ID() string {
	return s.template.ID
}

// With binds name to value and returns the new subject.
func (s *Subject) With(name, value string) (*Subject, error) {
	i, ok := s.template.index[name]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", s.template.ID, name, ErrUnknownField)
	}
	normalized, err := normalize(s.template.Fields[i], value)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.template.ID, name, err)
	}

	c := s.clone()
	c.values[i] = normalized
	c.bound[i] = true
	return c, nil
}

// WithUint binds a numeric value.
func (s *Subject) WithUint(name string, value uint64) (*Subject, error) {
	return s.With(name, strconv.FormatUint(value, 10))
}

// Without opens the named field again.
func (s *Subject) Without(name string) (*Subject, error) {
	i, ok := s.template.index[name]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", s.template.ID, name, ErrUnknownField)
	}
	c := s.clone()
	c.values[i] = ""
	c.bound[i] = false
	return c, nil
}

// Value returns the bound value of a field.
func (s *Subject) Value(name string) (string, bool) {
	i, ok := s.template.index[name]
	if !ok || !s.bound[i] {
		return "", false
	}
	return s.values[i], true
}

// Open is the number of unbound fields.
func (s *Subject) Open() int {
	n := 0
	for _, b := range s.bound {
		if !b {
			n++
		}
	}
	return n
}

// Parse returns the concrete path; every field must be bound.
func (s *Subject) Parse() (string, error) {
	for i, b := range s.bound {
		if !b {
			return "", fmt.Errorf("%s.%s: %w", s.template.ID, s.template.Fields[i].Name, ErrUnboundField)
		}
	}
	return s.render(), nil
}

// Wildcard returns the path with unbound fields replaced by "*".
func (s *Subject) Wildcard() string {
	return s.render()
}

func (s *Subject) render() string {
	var b strings.Builder
	b.WriteString(s.template.Prefix)
	for i := range s.template.Fields {
		b.WriteString(separator)
		if s.bound[i] {
			b.WriteString(s.values[i])
		} else {
			b.WriteString(wildcardOne)
		}
	}
	return b.String()
}

// Conditions lists the bound fields as column equalities in template order.
func (s *Subject) Conditions() []Condition {
	conds := make([]Condition, 0, len(s.template.Fields))
	for i, f := range s.template.Fields {
		if !s.bound[i] {
			continue
		}
		conds = append(conds, Condition{Column: f.SQLColumn(), Value: s.typedValue(i)})
	}
	return conds
}

// ToSQLWhere renders the bound fields as an AND-joined predicate.
// It reports false when nothing is bound.
func (s *Subject) ToSQLWhere() (string, bool) {
	conds := s.Conditions()
	if len(conds) == 0 {
		return "", false
	}
	clauses := make([]string, 0, len(conds))
	for _, c := range conds {
		clauses = append(clauses, c.Column+" = "+sqlLiteral(c.Value))
	}
	return strings.Join(clauses, " AND "), true
}

// ToSQLSelect lists the bound columns, or "*" when nothing is bound.
func (s *Subject) ToSQLSelect() string {
	conds := s.Conditions()
	if len(conds) == 0 {
		return "*"
	}
	cols := make([]string, 0, len(conds))
	for _, c := range conds {
		cols = append(cols, c.Column)
	}
	return strings.Join(cols, ", ")
}

// Key is the canonical form of the subject: identifier plus bound fields in template order.
func (s *Subject) Key() string {
	var b strings.Builder
	b.WriteString(s.template.ID)
	b.WriteString(":")
	first := true
	for i, f := range s.template.Fields {
		if !s.bound[i] {
			continue
		}
		if !first {
			b.WriteString(",")
		}
		first = false
		b.WriteString(f.Name)
		b.WriteString("=")
		b.WriteString(s.values[i])
	}
	return b.String()
}

// Equal reports whether both subjects share template and bindings.
func (s *Subject) Equal(other *Subject) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.template == other.template && s.Key() == other.Key()
}

func (s *Subject) String() string {
	return s.Wildcard()
}

func (s *Subject) typedValue(i int) any {
	if s.template.Fields[i].Kind == Uint {
		v, _ := strconv.ParseUint(s.values[i], 10, 64)
		return v
	}
	return s.values[i]
}

func (s *Subject) clone() *Subject {
	c := &Subject{
		template: s.template,
		values:   make([]string, len(s.values)),
		bound:    make([]bool, len(s.bound)),
	}
	copy(c.values, s.values)
	copy(c.bound, s.bound)
	return c
}

func normalize(f Field, value string) (string, error) {
	if err := validateSegment(value); err != nil {
		return "", err
	}
	if f.Kind == Uint {
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return "", fmt.Errorf("value %q is not an unsigned integer: %w", value, ErrInvalidFieldValue)
		}
		return strconv.FormatUint(v, 10), nil
	}
	return value, nil
}

func sqlLiteral(v any) string {
	switch value := v.(type) {
	case uint64:
		return strconv.FormatUint(value, 10)
	case string:
		escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
		return "'" + escaped + "'"
	default:
		return fmt.Sprintf("'%v'", value)
	}
}
