package control

import "errors"

// ErrInput indicates the operator input stream failed.
// The session keeps recording; only the stop command is lost.
var ErrInput = errors.New("control input failed")
