// Package record encodes typed records for the kv stores and validates them
// against a JSON Schema on the way in and on the way out.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalid is returned when a record does not satisfy its schema.
var ErrInvalid = errors.New("invalid record")

// Codec converts T to and from schema-checked JSON.
type Codec[T any] struct {
	name   string
	schema *jsonschema.Schema
}

// NewCodec compiles schemaJSON. name identifies the schema in errors.
func NewCodec[T any](name, schemaJSON string) (*Codec[T], error) {
	schema, err := jsonschema.CompileString(name, schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Codec[T]{name: name, schema: schema}, nil
}

// MustCodec is NewCodec for package-level schemas known to be valid.
func MustCodec[T any](name, schemaJSON string) *Codec[T] {
	c, err := NewCodec[T](name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return c
}

// Encode marshals v and refuses to emit a record that breaks the schema.
func (c *Codec[T]) Encode(v T) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", c.name, err)
	}
	if err := c.validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Decode validates raw before unmarshalling it into T.
func (c *Codec[T]) Decode(raw []byte) (T, error) {
	var out T
	if err := c.validate(raw); err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrInvalid, c.name, err)
	}
	return out, nil
}

func (c *Codec[T]) validate(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, c.name, err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, c.name, err)
	}
	return nil
}
