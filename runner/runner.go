// Package runner drives the automatic function-calling loop: execute a
// request, run the functions the model asks for, feed the results back as a
// chained request, and repeat until the model answers or a round limit is
// reached.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumenlabs/interactions-go/client"
	"github.com/lumenlabs/interactions-go/interaction"
	"github.com/lumenlabs/interactions-go/tools"
)

// DefaultMaxRounds bounds the loop when WithMaxRounds is not given.
const DefaultMaxRounds = 8

// Interactor executes validated requests. *client.Client implements it; a
// test double only needs Create.
type Interactor interface {
	Create(ctx context.Context, req *interaction.Request) (*interaction.Response, error)
}

// Streamer is the streaming side of the transport, implemented by
// *client.Client. RunStream requires the runner's Interactor to also be a
// Streamer.
type Streamer interface {
	Stream(ctx context.Context, req *interaction.Request) (*client.Stream, error)
}

// Hooks surface the loop's lifecycle moments during streamed runs (and,
// except OnEvent, during single-shot runs too). All hooks are optional.
type Hooks struct {
	// OnEvent observes every stream event as it arrives, including the
	// terminal chunk of each round.
	OnEvent func(ev interaction.StreamEvent)

	// OnFunctionCalls fires when functions are about to execute, with the
	// resolved call list for the round.
	OnFunctionCalls func(round int, calls []interaction.FunctionCall)

	// OnFunctionResults fires when the round's results are available,
	// before they are sent back to the model.
	OnFunctionResults func(round int, results []interaction.FunctionResult)
}

// Runner is the loop configuration. Rounds execute strictly sequentially;
// within a round, pending calls run concurrently and are joined by call id.
type Runner struct {
	target    Interactor
	registry  *tools.Registry
	maxRounds int
	logger    *slog.Logger
	hooks     Hooks
}

// Option configures a Runner.
type Option func(*Runner)

// WithRegistry sets the request-scoped registry consulted before the
// process-wide default registry.
func WithRegistry(reg *tools.Registry) Option {
	return func(r *Runner) { r.registry = reg }
}

// WithMaxRounds bounds the number of model calls in one run.
func WithMaxRounds(n int) Option {
	return func(r *Runner) { r.maxRounds = n }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithHooks registers lifecycle hooks.
func WithHooks(h Hooks) Option {
	return func(r *Runner) { r.hooks = h }
}

// New creates a runner around a transport.
//
// Example:
//
//	reg := tools.NewRegistry()
//	reg.Add(weather)
//
//	run, err := runner.New(c, runner.WithRegistry(reg)).Run(ctx, req)
//	if err != nil {
//	    return err
//	}
//	if run.LimitReached {
//	    return fmt.Errorf("gave up after %d rounds", run.Rounds)
//	}
//	fmt.Println(run.Response.Text())
func New(target Interactor, opts ...Option) *Runner {
	r := &Runner{
		target:    target,
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Result is the outcome of a run. LimitReached reports that the round limit
// was exhausted while function calls were still pending; this is a normal,
// reportable outcome, and Response holds the last response the model gave.
type Result struct {
	Response     *interaction.Response
	Rounds       int
	LimitReached bool
}

// Run executes the loop with single-shot model calls.
//
// Transport and API failures abort the loop immediately. Individual
// function failures do not: they are folded into error-shaped results the
// model can react to. A function call without a call id aborts the run,
// since its result could never be joined back.
func (r *Runner) Run(ctx context.Context, req *interaction.Request) (*Result, error) {
	cur := req
	for round := 1; ; round++ {
		resp, err := r.target.Create(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		next, result, err := r.afterResponse(ctx, req, resp, round)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
		cur = next
	}
}

// RunStream executes the same loop but observes each round's model call as
// an event stream, surfacing every event through Hooks.OnEvent.
func (r *Runner) RunStream(ctx context.Context, req *interaction.Request) (*Result, error) {
	streamer, ok := r.target.(Streamer)
	if !ok {
		return nil, fmt.Errorf("transport %T does not support streaming", r.target)
	}

	cur := req
	for round := 1; ; round++ {
		resp, err := r.streamRound(ctx, streamer, cur)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		next, result, err := r.afterResponse(ctx, req, resp, round)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
		cur = next
	}
}

func (r *Runner) streamRound(ctx context.Context, streamer Streamer, req *interaction.Request) (*interaction.Response, error) {
	stream, err := streamer.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stream.Close() }()

	for stream.Next() {
		if r.hooks.OnEvent != nil {
			r.hooks.OnEvent(stream.Current())
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return stream.Response()
}

// afterResponse inspects one round's response. It returns either the built
// next request, or the final Result when the loop is done.
func (r *Runner) afterResponse(ctx context.Context, original *interaction.Request, resp *interaction.Response, round int) (*interaction.Request, *Result, error) {
	calls := resp.FunctionCalls()
	if len(calls) == 0 {
		return nil, &Result{Response: resp, Rounds: round}, nil
	}
	if round >= r.maxRounds {
		r.logger.Info("function loop reached round limit",
			"rounds", round, "pendingCalls", len(calls))
		return nil, &Result{Response: resp, Rounds: round, LimitReached: true}, nil
	}

	if r.hooks.OnFunctionCalls != nil {
		r.hooks.OnFunctionCalls(round, calls)
	}
	r.logger.Info("executing function calls", "round", round, "calls", len(calls))

	results, err := tools.ExecuteCalls(ctx, calls, r.registry)
	if err != nil {
		return nil, nil, fmt.Errorf("round %d: %w", round, err)
	}
	for _, res := range results {
		if res.Error != "" {
			r.logger.Warn("function returned an error result",
				"function", res.Name, "callId", res.CallID, "error", res.Error)
		}
	}

	if r.hooks.OnFunctionResults != nil {
		r.hooks.OnFunctionResults(round, results)
	}

	next, err := r.nextRequest(original, resp, results)
	if err != nil {
		return nil, nil, err
	}
	return next, nil, nil
}

// nextRequest chains a pure function-result turn to the previous response.
// Tool declarations and the system instruction are not resent; the service
// carries them forward through the chained interaction.
func (r *Runner) nextRequest(original *interaction.Request, resp *interaction.Response, results []interaction.FunctionResult) (*interaction.Request, error) {
	if resp.ID == "" {
		return nil, &interaction.ValidationError{
			Kind:    interaction.PersistenceRequired,
			Message: "cannot continue the function loop: the interaction was not stored",
		}
	}

	content := make([]interaction.Content, 0, len(results))
	for _, res := range results {
		content = append(content, res)
	}

	b := interaction.NewRequest()
	if original.Agent != "" {
		b.Agent(original.Agent)
	} else {
		b.Model(original.Model)
	}
	return b.PreviousInteraction(resp.ID).
		Content(content...).
		Build()
}
