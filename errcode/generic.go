package errcode

// Generic error identifiers. The numeric values are part of the wire format
// and must never be renumbered.
const (
	InvalidArgument     ID = 0
	LogicError          ID = 1
	OutOfRange          ID = 2
	WouldBlock          ID = 3
	OperationTimeout    ID = 4
	NotConnected        ID = 5
	InvalidFormat       ID = 6
	IOStreamDegraded    ID = 7
	NonresponsiveDevice ID = 8
	RuntimeError        ID = 9
	EndOfFile           ID = 10
	Unexpected          ID = 11
	None                ID = 12
)

type genericCategory struct{}

func (*genericCategory) Name() string { return "Generic" }

func (*genericCategory) Description(id ID) string {
	switch id {
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case LogicError:
		return "LOGIC_ERROR"
	case OutOfRange:
		return "OUT_OF_RANGE"
	case WouldBlock:
		return "WOULD_BLOCK"
	case OperationTimeout:
		return "OPERATION_TIMEOUT"
	case NotConnected:
		return "NOT_CONNECTED"
	case InvalidFormat:
		return "INVALID_FORMAT"
	case IOStreamDegraded:
		return "IO_STREAM_DEGRADED"
	case NonresponsiveDevice:
		return "NONRESPONSIVE_DEVICE"
	case RuntimeError:
		return "RUNTIME_ERROR"
	case EndOfFile:
		return "END_OF_FILE"
	case Unexpected:
		return "UNEXPECTED"
	case None:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// Generic is the category of the core's own errors.
var Generic Category = &genericCategory{}

// OK is the success sentinel.
var OK = Code{cat: Generic, id: None}

// Canonical generic codes.
var (
	ErrInvalidArgument     = Code{cat: Generic, id: InvalidArgument}
	ErrLogic               = Code{cat: Generic, id: LogicError}
	ErrOutOfRange          = Code{cat: Generic, id: OutOfRange}
	ErrWouldBlock          = Code{cat: Generic, id: WouldBlock}
	ErrTimeout             = Code{cat: Generic, id: OperationTimeout}
	ErrNotConnected        = Code{cat: Generic, id: NotConnected}
	ErrInvalidFormat       = Code{cat: Generic, id: InvalidFormat}
	ErrIOStreamDegraded    = Code{cat: Generic, id: IOStreamDegraded}
	ErrNonresponsiveDevice = Code{cat: Generic, id: NonresponsiveDevice}
	ErrRuntime             = Code{cat: Generic, id: RuntimeError}
	ErrEndOfFile           = Code{cat: Generic, id: EndOfFile}
	ErrUnexpected          = Code{cat: Generic, id: Unexpected}
)

// Kind groups identifiers by how a caller is expected to react.
type Kind uint8

const (
	KindSuccess      Kind = iota
	KindUsage             // caller bug: invalid argument/format, logic, range
	KindTransient         // retry may succeed
	KindPersistent        // device or stream is unusable until reset
	KindCatastrophic      // runtime failure or unexpected state
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindUsage:
		return "usage"
	case KindTransient:
		return "transient"
	case KindPersistent:
		return "persistent"
	case KindCatastrophic:
		return "catastrophic"
	default:
		return "unknown"
	}
}

// KindOf classifies a code. Codes outside the generic category are catastrophic
// unless the application classifies them itself.
func KindOf(c Code) Kind {
	if c.cat != Generic {
		return KindCatastrophic
	}
	switch c.id {
	case None:
		return KindSuccess
	case InvalidArgument, InvalidFormat, LogicError, OutOfRange:
		return KindUsage
	case WouldBlock, OperationTimeout:
		return KindTransient
	case IOStreamDegraded, NonresponsiveDevice, NotConnected, EndOfFile:
		return KindPersistent
	default:
		return KindCatastrophic
	}
}

// IsTransient reports whether err carries a code worth retrying.
func IsTransient(err error) bool {
	return err != nil && KindOf(Of(err)) == KindTransient
}
