package netcomponents

import "github.com/yohamta/donburi"

type NetPlayerStateData struct {
	PlayerID     string
	Name         string
	Health       int
	MaxHealth    int
	Invulnerable bool
	Level        int
	XP           int
	LastSequence uint32 // Last input sequence processed by the server
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()
