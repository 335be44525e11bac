package database

import (
	"context"
)

type Option int

const (
	OptionReadOnly  Option = 0
	OptionReadWrite Option = 1
)

// Result is a cursor over the rows produced by one store query.
type Result interface {
	HasNext(ctx context.Context) bool
	Scan(scanTargets ...any) error
	Error() error
	Close(ctx context.Context) error
	Keys() []string
	Values() []any
}

// Driver issues individual queries against one scoped store session.
type Driver interface {
	Run(ctx context.Context, query string, parameters map[string]any) Result
}

type QueryLogic func(ctx context.Context, driver Driver) error

// Instance is a handle on one configured store. Session scopes a single store session around the
// given logic and releases it on every exit path.
type Instance interface {
	Session(ctx context.Context, driverLogic QueryLogic, options ...Option) error
	Close(ctx context.Context) error
}

type errorResult struct {
	err error
}

func (s errorResult) HasNext(ctx context.Context) bool {
	return false
}

func (s errorResult) Scan(scanTargets ...any) error {
	return s.err
}

func (s errorResult) Error() error {
	return s.err
}

func (s errorResult) Keys() []string {
	return nil
}

func (s errorResult) Values() []any {
	return nil
}

func (s errorResult) Close(ctx context.Context) error {
	return nil
}

func NewErrorResult(err error) Result {
	return errorResult{
		err: err,
	}
}
