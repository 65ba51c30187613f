package messages

import "github.com/automoto/doomerang-bosses/shared/netconfig"

// PlayerInput is sent from client to server each frame with the player's
// input state. MoveX and MoveZ are a stick direction on the ground plane.
type PlayerInput struct {
	Sequence  uint32                      // Incrementing ID for reconciliation
	MoveX     float64                     // -1..1
	MoveZ     float64                     // -1..1
	Actions   map[netconfig.ActionID]bool // Which actions are currently pressed
	Timestamp int64                       // Client timestamp (Unix ms)
}

// NewPlayerInput creates a PlayerInput with initialized map
func NewPlayerInput(seq uint32) PlayerInput {
	return PlayerInput{
		Sequence: seq,
		Actions:  make(map[netconfig.ActionID]bool),
	}
}

// Pressed reports whether action is held.
func (p PlayerInput) Pressed(action netconfig.ActionID) bool {
	return p.Actions[action]
}
