package bridge

import "github.com/aurantiaco/bridgesim/internal/model"

// Event is a message delivered to the bridge's inbox. Exactly one of the
// fields is meaningful, selected by Kind — Go has no tagged union, so this
// mirrors the reference enum with a discriminant plus per-variant payload
// fields, the same shape the teacher uses for its protocol.Message type.
type Event struct {
	Kind EventKind

	// Request carries the frame to route. Valid when Kind == EventRequest.
	Request model.Frame

	// Success carries the resolved destination and its segment. Valid when
	// Kind == EventSuccess.
	SuccessAddr model.Address
	SuccessSeg  model.Segment

	// Failure carries the destination that could not be resolved. Valid
	// when Kind == EventFailure.
	FailureAddr model.Address
}

// EventKind discriminates Event's payload.
type EventKind int

const (
	EventRequest EventKind = iota
	EventSuccess
	EventFailure
	EventShutdown
)

func (k EventKind) String() string {
	switch k {
	case EventRequest:
		return "Request"
	case EventSuccess:
		return "Success"
	case EventFailure:
		return "Failure"
	case EventShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// RequestEvent builds an Event carrying a Request(frame).
func RequestEvent(frame model.Frame) Event {
	return Event{Kind: EventRequest, Request: frame}
}

// SuccessEvent builds an Event carrying a Success(addr, seg).
func SuccessEvent(addr model.Address, seg model.Segment) Event {
	return Event{Kind: EventSuccess, SuccessAddr: addr, SuccessSeg: seg}
}

// FailureEvent builds an Event carrying a Failure(addr).
func FailureEvent(addr model.Address) Event {
	return Event{Kind: EventFailure, FailureAddr: addr}
}

// ShutdownEvent builds the terminal Shutdown event.
func ShutdownEvent() Event {
	return Event{Kind: EventShutdown}
}

// Command is a message the bridge sends to the facility.
type Command struct {
	Kind CommandKind

	// Broadcast carries the destination to probe. Valid when
	// Kind == CommandBroadcast.
	BroadcastAddr model.Address

	// Dispatch carries the frame and the segment it was resolved to. Valid
	// when Kind == CommandDispatch.
	DispatchFrame model.Frame
	DispatchSeg   model.Segment

	// Discard carries the frame that could not be resolved. Valid when
	// Kind == CommandDiscard.
	DiscardFrame model.Frame
}

// CommandKind discriminates Command's payload.
type CommandKind int

const (
	CommandBroadcast CommandKind = iota
	CommandDispatch
	CommandDiscard
)

func (k CommandKind) String() string {
	switch k {
	case CommandBroadcast:
		return "Broadcast"
	case CommandDispatch:
		return "Dispatch"
	case CommandDiscard:
		return "Discard"
	default:
		return "Unknown"
	}
}

// BroadcastCommand builds a Command carrying Broadcast(addr).
func BroadcastCommand(addr model.Address) Command {
	return Command{Kind: CommandBroadcast, BroadcastAddr: addr}
}

// DispatchCommand builds a Command carrying Dispatch(frame, seg).
func DispatchCommand(frame model.Frame, seg model.Segment) Command {
	return Command{Kind: CommandDispatch, DispatchFrame: frame, DispatchSeg: seg}
}

// DiscardCommand builds a Command carrying Discard(frame).
func DiscardCommand(frame model.Frame) Command {
	return Command{Kind: CommandDiscard, DiscardFrame: frame}
}
