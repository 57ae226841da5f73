// Package fetch wraps the network boundary in a uniform request/response
// envelope. Every thunk shares one error-handling idiom: inspect the Result,
// never raw HTTP semantics.
package fetch

import "encoding/json"

type Outcome int

const (
	// OutcomeOK: a 2xx response was obtained; Body holds the raw JSON.
	OutcomeOK Outcome = iota
	// OutcomeNotRun: a client-side precondition failed before any request
	// was sent. Callers treat it exactly like a failure (show Err, stop
	// spinners); the only difference is that no network traffic happened.
	OutcomeNotRun
	// OutcomeFailed: a transport error or a non-2xx response.
	OutcomeFailed
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindTransport: no response obtained (network unreachable, bad request
	// construction). The only failed case without a status.
	KindTransport
	// KindPrecondition: client-side validation or uniqueness check failed.
	KindPrecondition
	// KindClient: HTTP 4xx.
	KindClient
	// KindServer: HTTP 5xx.
	KindServer
)

// Result is the uniform fetch envelope. Status is 0 iff no response was
// obtained (transport failure or not-run).
type Result struct {
	Outcome Outcome
	Status  int
	Body    json.RawMessage
	Kind    ErrorKind
	Err     string
}

// Failed reports whether the operation did not succeed, counting NotRun.
func (r Result) Failed() bool {
	return r.Outcome != OutcomeOK
}

func OK(status int, body json.RawMessage) Result {
	return Result{Outcome: OutcomeOK, Status: status, Body: body}
}

// OKEmpty is the synthetic success used when a precondition makes the
// request unnecessary (nothing missing to fetch).
func OKEmpty() Result {
	return Result{Outcome: OutcomeOK}
}

func NotRun(msg string) Result {
	return Result{Outcome: OutcomeNotRun, Kind: KindPrecondition, Err: msg}
}

func TransportFailure(msg string) Result {
	return Result{Outcome: OutcomeFailed, Kind: KindTransport, Err: msg}
}

func HTTPFailure(status int, msg string) Result {
	kind := KindClient
	if status >= 500 {
		kind = KindServer
	}
	return Result{Outcome: OutcomeFailed, Status: status, Kind: kind, Err: msg}
}
