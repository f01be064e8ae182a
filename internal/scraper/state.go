package scraper

// State is a step of the run lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateLaunched
	StateNavigated
	StatePageLoaded
	StateExtracted
	StateCompleted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateLaunched:
		return "launched"
	case StateNavigated:
		return "navigated"
	case StatePageLoaded:
		return "page_loaded"
	case StateExtracted:
		return "extracted"
	case StateCompleted:
		return "completed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateObserver is notified of every transition. page is set for
// StatePageLoaded and StateExtracted and is 0 otherwise.
type StateObserver func(state State, page int)
