// Package schema generates JSON Schemas for function argument declarations.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Reflector is configured for function declarations sent to the service.
// DoNotReference inlines all definitions so the schema carries no $ref the
// service would have to resolve.
var Reflector = &jsonschema.Reflector{
	DoNotReference: true,
}

// For creates a JSON Schema from a Go type. The type should be a struct
// with json and jsonschema tags.
//
// Example:
//
//	type WeatherInput struct {
//	    City string `json:"city" jsonschema:"required,description=City name"`
//	}
//
//	params, err := schema.For[WeatherInput]()
func For[T any]() (json.RawMessage, error) {
	var zero T
	s := Reflector.Reflect(&zero)
	return json.Marshal(s)
}

// FromValue creates a JSON Schema from a value rather than a type
// parameter.
func FromValue(v any) (json.RawMessage, error) {
	s := Reflector.Reflect(v)
	return json.Marshal(s)
}

// MustFor is like For but panics on error. Useful for package-level
// declarations.
func MustFor[T any]() json.RawMessage {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}
