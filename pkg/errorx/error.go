package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// New creates an Error with a user-facing message. The message is returned to
// clients verbatim, so it must not contain internal details.
func New(code Code, format string, args ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
