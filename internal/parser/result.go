package parser

// Kind classifies the outcome of an action.
type Kind int

const (
	KindSuccess Kind = iota
	KindInfo
	KindError
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "SUCCESS"
	case KindInfo:
		return "INFO"
	case KindError:
		return "ERROR"
	case KindFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Result is returned by every action and by the dispatcher itself.
type Result struct {
	Kind    Kind
	Message string
}

func Success(msg string) Result { return Result{Kind: KindSuccess, Message: msg} }
func Info(msg string) Result    { return Result{Kind: KindInfo, Message: msg} }
func Error(msg string) Result   { return Result{Kind: KindError, Message: msg} }
func Fatal(msg string) Result   { return Result{Kind: KindFatal, Message: msg} }

// OK reports whether the action went through (Success or Info).
func (r Result) OK() bool {
	return r.Kind == KindSuccess || r.Kind == KindInfo
}

func (r Result) String() string {
	if r.Message == "" {
		return r.Kind.String()
	}
	return r.Kind.String() + ": " + r.Message
}
