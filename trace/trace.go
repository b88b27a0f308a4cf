// Package trace contains hooks over driver events.
//
// Every hook is optional. A hook is called on event start and may return a
// closure which is called on event done.
package trace

type call interface {
	FunctionID() string
}

type sessionInfo interface {
	ID() string
	Status() string
}

type txInfo interface {
	ID() string
}
