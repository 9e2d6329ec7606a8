package event

// EventType represents the type of session event
type EventType int

const (
	// EventAttached signals a body joined the stack
	// Trigger: collision drained during tick phase 0
	// Consumer: audio, trace, HUD | Payload: *AttachedPayload
	EventAttached EventType = iota

	// EventRejected signals a collision that did not attach
	// Trigger: collision drained during tick phase 0
	// Consumer: trace | Payload: *RejectedPayload
	EventRejected

	// EventLost signals the stack collapsed
	// Trigger: amplitude reached the lose threshold
	// Consumer: audio, world (release), HUD | Payload: *OutcomePayload
	EventLost

	// EventWon signals the stack reached the target height
	// Trigger: stack count reached the win threshold
	// Consumer: audio, spawner (halt), HUD | Payload: *OutcomePayload
	EventWon

	// EventCelebration requests the final celebratory body
	// Trigger: camera settled after Won | Payload: *CelebrationPayload
	EventCelebration

	// EventSessionEnd fires after the grace delay (Lost) or win wait (Won)
	// Consumer: front end | Payload: *OutcomePayload
	EventSessionEnd

	// EventReset signals the registry was cleared for a new session
	// Payload: nil
	EventReset

	// EventTeleport signals the stack was moved as a rigid group
	// Payload: *TeleportPayload
	EventTeleport
)

var typeNames = map[EventType]string{
	EventAttached:    "attached",
	EventRejected:    "rejected",
	EventLost:        "lost",
	EventWon:         "won",
	EventCelebration: "celebration",
	EventSessionEnd:  "session_end",
	EventReset:       "reset",
	EventTeleport:    "teleport",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// GameEvent is one outbound session notification
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    uint64 // Tick that produced the event
}
