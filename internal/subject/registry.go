package subject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Payload is the wire form of a subject in subscribe and unsubscribe requests.
type Payload struct {
	Subject string                     `json:"subject"`
	Params  map[string]json.RawMessage `json:"params"`
}

// Registry resolves template identifiers.
type Registry struct {
	templates map[string]*Template
	ordered   []*Template
}

// NewRegistry indexes templates by identifier.
func NewRegistry(templates ...*Template) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, ok := r.templates[t.ID]; ok {
			return nil, fmt.Errorf("duplicate template %s", t.ID)
		}
		r.templates[t.ID] = t
		r.ordered = append(r.ordered, t)
	}
	return r, nil
}

// DefaultRegistry holds the built-in templates.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(All()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Templates returns every registered template in registration order.
func (r *Registry) Templates() []*Template {
	return append([]*Template(nil), r.ordered...)
}

// Lookup returns the template registered under id.
func (r *Registry) Lookup(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownSubject)
	}
	return t, nil
}

// FromPayload builds the subject described by a request payload.
// Params hold strings, non-negative integers or null for an open field.
func (r *Registry) FromPayload(p Payload) (*Subject, error) {
	t, err := r.Lookup(p.Subject)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(p.Params))
	for name := range p.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	s := t.New()
	for _, name := range names {
		if _, ok := t.Field(name); !ok {
			return nil, fmt.Errorf("%s has no field %q: %w", t.ID, name, ErrInvalidRequest)
		}
		value, set, err := paramValue(p.Params[name])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.ID, name, err)
		}
		if !set {
			continue
		}
		if s, err = s.With(name, value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	return s, nil
}

// Payload returns the wire form with bound fields only.
func (s *Subject) Payload() Payload {
	params := make(map[string]json.RawMessage)
	for i, f := range s.template.Fields {
		if !s.bound[i] {
			continue
		}
		if f.Kind == Uint {
			params[f.Name] = json.RawMessage(s.values[i])
			continue
		}
		quoted, _ := json.Marshal(s.values[i])
		params[f.Name] = quoted
	}
	return Payload{Subject: s.template.ID, Params: params}
}

func paramValue(raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	if raw[0] == '"' {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", false, fmt.Errorf("decode string param: %w", ErrInvalidRequest)
		}
		return v, true, nil
	}
	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return "", false, fmt.Errorf("param %s is neither a string nor an unsigned integer: %w", raw, ErrInvalidRequest)
	}
	return strconv.FormatUint(v, 10), true, nil
}
