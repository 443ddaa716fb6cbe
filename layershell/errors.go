package layershell

import "fmt"

// ErrorKind classifies engine setup failures.
type ErrorKind int

const (
	KindConnect ErrorKind = iota + 1
	KindGlobal
	KindBind
	KindDispatch
	KindTempFile
	KindEventLoopInit
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindGlobal:
		return "global"
	case KindBind:
		return "bind"
	case KindDispatch:
		return "dispatch"
	case KindTempFile:
		return "tempfile"
	case KindEventLoopInit:
		return "event loop init"
	}
	return "unknown"
}

// Error is returned by Build and Run.
type Error struct {
	Kind ErrorKind
	Err  error
}

// Sentinels for errors.Is.
var (
	ErrConnect       = &Error{Kind: KindConnect}
	ErrGlobal        = &Error{Kind: KindGlobal}
	ErrBind          = &Error{Kind: KindBind}
	ErrDispatch      = &Error{Kind: KindDispatch}
	ErrTempFile      = &Error{Kind: KindTempFile}
	ErrEventLoopInit = &Error{Kind: KindEventLoopInit}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "layershell: " + e.Kind.String() + " error"
	}
	return fmt.Sprintf("layershell: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}
