package views

import "errors"

// State is where a page's data fetch stands.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// Result is the outcome of one page load. Data is only meaningful when
// State is Ready; a failed load never carries the previous data forward.
type Result[T any] struct {
	State  State
	Data   T
	Err    error
	Reason string
}

func LoadingResult[T any]() Result[T] {
	return Result[T]{State: Loading}
}

func ReadyResult[T any](data T) Result[T] {
	return Result[T]{State: Ready, Data: data}
}

// FailedResult records err with the message the page shows in its banner.
func FailedResult[T any](err error, reason string) Result[T] {
	return Result[T]{State: Failed, Err: err, Reason: reason}
}

func (r Result[T]) IsReady() bool  { return r.State == Ready }
func (r Result[T]) IsFailed() bool { return r.State == Failed }

// ErrSuperseded is returned by a load whose result lost to a newer load.
var ErrSuperseded = errors.New("views: superseded by a newer load")
