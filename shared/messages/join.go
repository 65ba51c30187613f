package messages

// JoinRequest is sent by a client after connecting to name its player.
type JoinRequest struct {
	Version    string
	PlayerName string
}
