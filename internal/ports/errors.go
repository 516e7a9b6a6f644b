package ports

import "errors"

// ErrNoSession is returned by AuthProvider.Validate when a token does not
// resolve to a live session.
var ErrNoSession = errors.New("no session")
