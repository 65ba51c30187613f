package network

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"

	"github.com/automoto/doomerang-bosses/shared/messages"
	"github.com/automoto/doomerang-bosses/shared/netconfig"
)

var ErrNotConnected = errors.New("network: not connected")

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

// Client is a headless WebSocket connection to the boss server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	conn      *websocket.Conn
	seq       uint32
	snapshots int

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins
	log        *log.Logger
}

func NewClient(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "client"})
	}
	return &Client{
		state:      StateDisconnected,
		snapshotCh: make(chan esync.WorldSnapshot, 1),
		log:        logger,
	}
}

// Connect dials the server in a background goroutine and sends the join request.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.log.Info("connected to server", "address", address)
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
			return
		}
		c.mu.Lock()
		c.state = StateJoinedGame
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		c.mu.Lock()
		c.snapshots++
		c.mu.Unlock()
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.Warn("disconnected", "err", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.Error("client error", "err", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Snapshots is the number of world snapshots received so far.
func (c *Client) Snapshots() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshots
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

// SendInput sends one frame of input with the next sequence number.
func (c *Client) SendInput(moveX, moveZ float64, actions ...netconfig.ActionID) error {
	c.mu.Lock()
	c.seq++
	in := messages.NewPlayerInput(c.seq)
	c.mu.Unlock()

	in.MoveX, in.MoveZ = moveX, moveZ
	for _, a := range actions {
		in.Actions[a] = true
	}
	return c.SendMessage(in)
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}
