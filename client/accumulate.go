package client

import (
	"errors"
	"sort"

	"github.com/lumenlabs/interactions-go/interaction"
)

// ErrIncompleteStream is returned by Accumulator.Response when no terminal
// chunk was seen.
var ErrIncompleteStream = errors.New("stream ended before a terminal chunk")

// Accumulator folds a sequence of stream events into the interaction a
// single-shot call would have returned. Unrecognized and parse-error chunks
// do not contribute to the result; they stay visible to the caller on the
// event sequence itself.
type Accumulator struct {
	id     string
	model  string
	status interaction.Status
	usage  *interaction.Usage

	// Slots are keyed by index rather than held in a dense slice: the index
	// comes off the wire, and a single frame carrying a hostile value must
	// not drive allocation or indexing.
	slots map[int]interaction.Content

	errChunk  *interaction.ErrorChunk
	completed bool
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{slots: make(map[int]interaction.Content)}
}

// Add folds one event into the accumulator. Content chunks with a negative
// index are ignored, like any other frame that cannot contribute to the
// result.
func (a *Accumulator) Add(ev interaction.StreamEvent) {
	switch chunk := ev.Chunk.(type) {
	case interaction.StartChunk:
		a.id = chunk.ID
		a.model = chunk.Model
	case interaction.StatusChunk:
		a.status = chunk.Status
	case interaction.ContentStartChunk:
		if chunk.Index >= 0 {
			a.touchSlot(chunk.Index)
		}
	case interaction.DeltaChunk:
		if chunk.Index >= 0 {
			a.touchSlot(chunk.Index)
			a.slots[chunk.Index] = mergeContent(a.slots[chunk.Index], chunk.Delta)
		}
	case interaction.ContentStopChunk:
		// Slot is complete; nothing to fold.
	case interaction.CompleteChunk:
		if chunk.ID != "" {
			a.id = chunk.ID
		}
		if chunk.Status != "" {
			a.status = chunk.Status
		}
		if chunk.Usage != nil {
			a.usage = chunk.Usage
		}
		a.completed = true
	case interaction.ErrorChunk:
		a.errChunk = &chunk
	}
}

// Response returns the assembled interaction. A terminal error chunk
// surfaces as an *APIError; a missing terminal chunk as
// ErrIncompleteStream.
func (a *Accumulator) Response() (*interaction.Response, error) {
	if a.errChunk != nil {
		return nil, &APIError{
			Code:    a.errChunk.Code,
			Status:  a.errChunk.Status,
			Message: a.errChunk.Message,
		}
	}
	if !a.completed {
		return nil, ErrIncompleteStream
	}

	indexes := make([]int, 0, len(a.slots))
	for i := range a.slots {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	var outputs []interaction.Content
	for _, i := range indexes {
		if slot := a.slots[i]; slot != nil {
			outputs = append(outputs, slot)
		}
	}

	return &interaction.Response{
		ID:      a.id,
		Model:   a.model,
		Status:  a.status,
		Outputs: outputs,
		Usage:   a.usage,
	}, nil
}

func (a *Accumulator) touchSlot(index int) {
	if a.slots == nil {
		a.slots = make(map[int]interaction.Content)
	}
	if _, ok := a.slots[index]; !ok {
		a.slots[index] = nil
	}
}

// mergeContent appends a delta into an open slot. Text-like kinds
// concatenate; function calls merge field-wise; anything else replaces the
// slot wholesale.
func mergeContent(existing, delta interaction.Content) interaction.Content {
	if existing == nil {
		return delta
	}

	switch cur := existing.(type) {
	case interaction.TextContent:
		if d, ok := delta.(interaction.TextContent); ok {
			cur.Text += d.Text
			return cur
		}
	case interaction.ThoughtContent:
		if d, ok := delta.(interaction.ThoughtContent); ok {
			cur.Text += d.Text
			if d.Signature != "" {
				cur.Signature = d.Signature
			}
			return cur
		}
	case interaction.FunctionCall:
		if d, ok := delta.(interaction.FunctionCall); ok {
			if d.ID != "" {
				cur.ID = d.ID
			}
			if d.Name != "" {
				cur.Name = d.Name
			}
			if len(d.Args) > 0 {
				if cur.Args == nil {
					cur.Args = make(map[string]any, len(d.Args))
				}
				for k, v := range d.Args {
					cur.Args[k] = v
				}
			}
			return cur
		}
	}
	return delta
}
