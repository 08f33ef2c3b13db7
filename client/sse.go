package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// sseEvent is one framed server-sent event: the data payload plus the
// optional event name and identifier fields.
type sseEvent struct {
	id    string
	event string
	data  []byte
}

// sseScanner frames a byte stream into discrete server-sent events on the
// standard double-newline boundaries. It does not interpret the payload.
type sseScanner struct {
	reader *bufio.Reader
}

func newSSEScanner(r io.Reader) *sseScanner {
	return &sseScanner{reader: bufio.NewReader(r)}
}

// Next returns the next event. It returns io.EOF on a clean end of stream
// and io.ErrUnexpectedEOF when the stream ends inside an event.
func (s *sseScanner) Next() (*sseEvent, error) {
	var (
		ev      sseEvent
		dataSet bool
		data    [][]byte
	)

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && (dataSet || line != "") {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		// Strip exactly one line terminator; a CR that is part of the
		// payload stays.
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		// Blank line ends the event. Frames with no data field (e.g. a
		// bare id or comment) are skipped rather than yielded.
		if line == "" {
			if !dataSet {
				ev = sseEvent{}
				continue
			}
			ev.data = bytes.Join(data, []byte("\n"))
			return &ev, nil
		}

		// Comment line.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			dataSet = true
			data = append(data, []byte(value))
		case "id":
			ev.id = value
		case "event":
			ev.event = value
		}
	}
}
