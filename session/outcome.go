package session

// Outcome is the session result state
type Outcome uint8

const (
	InProgress Outcome = iota
	Lost
	Won
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen this session
func (o Outcome) Terminal() bool {
	return o == Lost || o == Won
}

// CanTransition checks if an outcome transition is valid
// Only InProgress has exits; both terminal states are sinks
func CanTransition(from, to Outcome) bool {
	validTransitions := map[Outcome][]Outcome{
		InProgress: {Lost, Won},
	}

	for _, o := range validTransitions[from] {
		if o == to {
			return true
		}
	}
	return false
}
