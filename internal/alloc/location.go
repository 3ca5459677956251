package alloc

import (
	"fmt"
	"runtime"
)

// Location identifies a call site. The typed helpers capture the caller's
// location on every dispatch so diagnostics can name the line that asked for
// memory.
type Location struct {
	File     string
	Function string
	Line     int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d [%s]", l.File, l.Line, l.Function)
}

// callerLocation captures the location skip+1 frames above this function.
func callerLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{File: "unknown", Function: "unknown"}
	}

	function := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}

	return Location{File: file, Function: function, Line: line}
}

// ContractError is the payload of the panic raised on a contract violation:
// an invalid alignment, a misaligned free pointer, a resize of a non-top
// stack block, or a corrupted invariant. These are programming errors, not
// recoverable conditions.
type ContractError struct {
	Location Location
	Message  string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// fatalf aborts with a ContractError naming the function that called fatalf,
// i.e. the check that detected the violation.
func fatalf(format string, args ...interface{}) {
	panic(&ContractError{
		Location: callerLocation(1),
		Message:  fmt.Sprintf(format, args...),
	})
}
