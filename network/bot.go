package network

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/automoto/doomerang-bosses/shared/netconfig"
)

// InputSender is the part of Client a Bot drives.
type InputSender interface {
	SendInput(moveX, moveZ float64, actions ...netconfig.ActionID) error
}

// Bot walks in a circle and swings on a fixed beat. It is a load and smoke
// test for the server, not a player.
type Bot struct {
	Sender      InputSender
	Period      int // Ticks per full circle
	AttackEvery int // Ticks between swings, 0 never swings
}

// Frame returns the input for tick n.
func (b *Bot) Frame(n int) (moveX, moveZ float64, actions []netconfig.ActionID) {
	period := b.Period
	if period <= 0 {
		period = 1
	}
	angle := 2 * math.Pi * float64(n%period) / float64(period)
	moveX, moveZ = math.Cos(angle), math.Sin(angle)

	// Attack is edge-triggered on the server, so hold it for one tick only
	if b.AttackEvery > 0 && n%b.AttackEvery == 0 {
		actions = append(actions, netconfig.ActionAttack)
	}
	return moveX, moveZ, actions
}

// Run sends one frame per interval until ctx is done. Sends while the
// connection is still coming up are skipped.
func (b *Bot) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			x, z, actions := b.Frame(n)
			if err := b.Sender.SendInput(x, z, actions...); err != nil && !errors.Is(err, ErrNotConnected) {
				return err
			}
		}
	}
}
