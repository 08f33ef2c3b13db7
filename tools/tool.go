// Package tools defines the caller-supplied functions the model can invoke:
// the Tool interface, a type-safe constructor with auto-generated schemas,
// registries for lookup by name, and concurrent execution of pending calls.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/lumenlabs/interactions-go/interaction"
	"github.com/lumenlabs/interactions-go/schema"
)

// Tool is an executable function the model can call. Implementations may be
// shared across concurrently dispatched calls; any mutable state inside a
// tool is its author's responsibility to guard.
type Tool interface {
	// Name returns the function name as declared to the model.
	Name() string

	// Description returns the description shown to the model.
	Description() string

	// Parameters returns the JSON schema for the function's arguments.
	Parameters() *jsonschema.Schema

	// Execute runs the function with the given JSON arguments.
	Execute(ctx context.Context, args json.RawMessage) (any, error)
}

// TypedTool is a Tool backed by a plain Go function. The argument schema is
// generated from In.
type TypedTool[In any, Out any] struct {
	name        string
	description string
	fn          func(ctx context.Context, in In) (Out, error)
	schema      *jsonschema.Schema
}

// New creates a type-safe tool from a function.
//
// Example:
//
//	type WeatherInput struct {
//	    City string `json:"city" jsonschema:"required,description=City name"`
//	}
//
//	weather := tools.Must("get_weather", "Current weather for a city",
//	    func(ctx context.Context, in WeatherInput) (string, error) {
//	        return lookup(in.City)
//	    },
//	)
func New[In any, Out any](
	name, description string,
	fn func(ctx context.Context, in In) (Out, error),
) (*TypedTool[In, Out], error) {
	var zero In
	return &TypedTool[In, Out]{
		name:        name,
		description: description,
		fn:          fn,
		schema:      schema.Reflector.Reflect(&zero),
	}, nil
}

// Must is like New but panics on error. Useful for package-level tool
// definitions.
func Must[In any, Out any](
	name, description string,
	fn func(ctx context.Context, in In) (Out, error),
) *TypedTool[In, Out] {
	t, err := New(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the function name.
func (t *TypedTool[In, Out]) Name() string {
	return t.name
}

// Description returns the function description.
func (t *TypedTool[In, Out]) Description() string {
	return t.description
}

// Parameters returns the generated argument schema.
func (t *TypedTool[In, Out]) Parameters() *jsonschema.Schema {
	return t.schema
}

// Execute unmarshals args into In and calls the wrapped function.
func (t *TypedTool[In, Out]) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var input In
	if len(args) > 0 {
		if err := json.Unmarshal(args, &input); err != nil {
			return nil, fmt.Errorf("unmarshaling arguments for %q: %w", t.name, err)
		}
	}
	return t.fn(ctx, input)
}

// Declarations converts tools into the declarations attached to a request.
func Declarations(ts ...Tool) ([]interaction.ToolDecl, error) {
	decls := make([]interaction.ToolDecl, 0, len(ts))
	for _, t := range ts {
		params, err := json.Marshal(t.Parameters())
		if err != nil {
			return nil, fmt.Errorf("marshaling schema for %q: %w", t.Name(), err)
		}
		decls = append(decls, interaction.ToolDecl{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  params,
		})
	}
	return decls, nil
}
