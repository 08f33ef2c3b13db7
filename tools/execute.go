package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/lumenlabs/interactions-go/interaction"
)

// ErrMissingCallID reports a function call without an identity token. This
// is fatal: without the id there is no way to join the eventual result back
// to the call, so the whole round is unrecoverable.
var ErrMissingCallID = errors.New("function call has no call id")

// ExecuteCalls runs pending function calls and returns one result per call,
// keyed by call id. Calls are dispatched concurrently and joined by
// identity, never by position: a result always carries the id and name of
// the call that produced it, whatever order executions finish in.
//
// Resolution tries reg first (it may be nil), then the process-wide default
// registry. An unresolved name or a failing execution produces an
// error-shaped result for the model rather than an error to the caller.
func ExecuteCalls(ctx context.Context, calls []interaction.FunctionCall, reg *Registry) ([]interaction.FunctionResult, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	for _, call := range calls {
		if call.ID == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingCallID, call.Name)
		}
	}

	results := make([]interaction.FunctionResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = executeCall(ctx, call, reg)
		}()
	}
	wg.Wait()

	return results, nil
}

func executeCall(ctx context.Context, call interaction.FunctionCall, reg *Registry) interaction.FunctionResult {
	result := interaction.FunctionResult{CallID: call.ID, Name: call.Name}

	tool, ok := resolve(call.Name, reg)
	if !ok {
		result.Error = fmt.Sprintf("function not found: %q", call.Name)
		return result
	}

	args, err := json.Marshal(call.Args)
	if err != nil {
		result.Error = fmt.Sprintf("encoding arguments: %v", err)
		return result
	}

	out, err := tool.Execute(ctx, args)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Result = out
	return result
}

func resolve(name string, reg *Registry) (Tool, bool) {
	if reg != nil {
		if t, ok := reg.Get(name); ok {
			return t, true
		}
	}
	return defaultRegistry.Get(name)
}
