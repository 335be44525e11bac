package database

import (
	"fmt"
)

// ConnectionGuidance is printed alongside a ConnectionError to give the operator a starting point.
const ConnectionGuidance = `Troubleshooting:
  1. Is the database running?
  2. Is the bolt port correct? (default: 7687)
  3. Are the credentials correct?`

// ConnectionError reports that a store was unreachable or rejected the supplied credentials. It is
// fatal: nothing has been written when it is returned.
type ConnectionError struct {
	URI string
	Err error
}

func (s *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to %s: %v", s.URI, s.Err)
}

func (s *ConnectionError) Unwrap() error {
	return s.Err
}

func NewConnectionError(uri string, err error) *ConnectionError {
	return &ConnectionError{
		URI: uri,
		Err: err,
	}
}
