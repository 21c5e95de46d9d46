package dashboard

import "time"

// Status is the fetch outcome of one data source.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the tagged state of one data source: loading, ready(data) or
// failed(reason). A failed result keeps the last data that was ready, if
// any, so HasData tells whether Data came from a response.
type Result[T any] struct {
	Status    Status
	Data      T
	HasData   bool
	Err       error
	UpdatedAt time.Time
}

// Loading returns the initial state holding the zero value of T.
func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

// Ready returns a result that replaces any previous data in full.
func Ready[T any](data T, at time.Time) Result[T] {
	return Result[T]{
		Status:    StatusReady,
		Data:      data,
		HasData:   true,
		UpdatedAt: at,
	}
}

// Fail moves r to the failed state, keeping its last good data.
func (r Result[T]) Fail(err error) Result[T] {
	r.Status = StatusFailed
	r.Err = err
	return r
}

func (r Result[T]) IsLoading() bool {
	return r.Status == StatusLoading
}

func (r Result[T]) IsReady() bool {
	return r.Status == StatusReady
}

func (r Result[T]) IsFailed() bool {
	return r.Status == StatusFailed
}

// Reason is the failure message, or "" when not failed.
func (r Result[T]) Reason() string {
	if r.Status != StatusFailed || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
