package stream

// State is the lifecycle phase of a stream.
type State int32

const (
	Init State = iota
	Authorizing
	HistoricalCatchUp
	LiveTail
	Closed
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Authorizing:
		return "authorizing"
	case HistoricalCatchUp:
		return "historical_catch_up"
	case LiveTail:
		return "live_tail"
	case Closed:
		return "closed"
	}
	return "unknown"
}
