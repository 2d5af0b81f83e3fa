/*
Package server implements msgpack IPC for prefix completion.

The server reads a stream of msgpack maps from its input and writes one
msgpack map per request to its output, in request order. Logs never go to
the output stream.

# IPC

The first message written is a status map:

	{"status": "ready"}

Every request carries an id echoed back in the reply, and an action "a".
An empty action means "complete".

Completion returns the top "l" words starting with "p", heaviest first:

	{"id": "req_001", "a": "complete", "p": "ame", "l": 4}
	{"id": "req_001", "s": [{"w": "america", "r": 1, "v": 1032.0}, {"w": "amend", "r": 2, "v": 77.0}], "c": 2, "t": 41}

"t" is the lookup time in microseconds and "r" the 1-based rank.

The single best completion:

	{"id": "req_002", "a": "top", "p": "ame"}
	{"id": "req_002", "w": "america", "v": 1032.0, "t": 3}

The weight of an exact word, 0 when absent:

	{"id": "req_003", "a": "weight", "w": "amend"}
	{"id": "req_003", "w": "amend", "v": 77.0, "t": 1}

A liveness probe:

	{"id": "req_004", "a": "health"}
	{"id": "req_004", "status": "ok"}

# Errors

A request that cannot be served gets an error map instead:

	{"id": "req_005", "e": "prefix exceeds maximum length of 60 characters", "c": 400}

Code 400 marks a bad request (undecodable message, unknown action, prefix
out of bounds) and 500 a failure inside the index.
*/
package server

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionTop      = "top"
	ActionWeight   = "weight"
	ActionHealth   = "health"
)

// Error codes carried in CompletionError.
const (
	CodeBadRequest = 400
	CodeInternal   = 500
)

// Request - any client message; fields unused by the action are ignored
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Word   string `msgpack:"w,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word   string  `msgpack:"w"`
	Rank   uint16  `msgpack:"r"`
	Weight float64 `msgpack:"v"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// TermResponse answers "top" and "weight". Word is empty when a "top"
// request has no match.
type TermResponse struct {
	ID        string  `msgpack:"id"`
	Word      string  `msgpack:"w"`
	Weight    float64 `msgpack:"v"`
	TimeTaken int64   `msgpack:"t"`
}

// StatusResponse - ready and health messages
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
