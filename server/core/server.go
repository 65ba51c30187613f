package core

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"

	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/shared/messages"
	"github.com/automoto/doomerang-bosses/shared/netcomponents"
)

// Options configure a Server. Empty paths fall back to the built-in
// defaults where one exists.
type Options struct {
	TickRate      int
	LevelPath     string
	BossTypesPath string
	WatchTypes    bool // Reload boss types when the file changes
	Seed          int64
	Version       string // Required client version, empty accepts any
	Logger        *log.Logger
}

// Server manages the simulation and client connections
type Server struct {
	world     donburi.World
	sim       *Simulation
	loop      *GameLoop
	transport *transports.WsServerTransport
	watcher   *cfg.Watcher
	opts      Options
	log       *log.Logger

	// Track which network client plays which player
	clientPlayers map[*router.NetworkClient]string
	mu            sync.RWMutex
}

// NewServer loads the level and boss types and builds the simulation.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "server", ReportTimestamp: true})
	}

	level, err := LoadServerLevel(opts.LevelPath, logger)
	if err != nil {
		return nil, err
	}

	types := cfg.DefaultBossTypes()
	if opts.BossTypesPath != "" {
		if types, err = cfg.LoadBossTypes(opts.BossTypesPath); err != nil {
			return nil, err
		}
	}

	world := donburi.NewWorld()

	// Set up the world for esync
	srvsync.UseEsync(world)

	sim, err := NewSimulation(world, SimOptions{
		Level:  level,
		Types:  types,
		Syncer: esyncer{world: world},
		Seed:   opts.Seed,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		world:         world,
		sim:           sim,
		opts:          opts,
		log:           logger,
		clientPlayers: make(map[*router.NetworkClient]string),
	}
	s.loop = NewGameLoop(sim, opts.TickRate, logger.WithPrefix("loop"))
	s.setupRouterCallbacks()
	return s, nil
}

// Start begins the server on the given port. It blocks while the transport runs.
func (s *Server) Start(port uint) error {
	s.loop.Start()

	if s.opts.WatchTypes && s.opts.BossTypesPath != "" {
		w, err := cfg.NewWatcher(filepath.Dir(s.opts.BossTypesPath))
		if err != nil {
			s.log.Warn("boss types hot reload disabled", "err", err)
		} else {
			s.watcher = w
			go s.watchTypes(w)
		}
	}

	// Create and start WebSocket transport
	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.sim.Close()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.onConnect(client)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.onJoinRequest(client, req)
	})

	router.On(func(client *router.NetworkClient, input messages.PlayerInput) {
		s.onPlayerInput(client, input)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.Error("client error", "client", client.Id(), "err", err)
	})
}

func (s *Server) onConnect(client *router.NetworkClient) {
	id := uuid.NewString()
	s.mu.Lock()
	s.clientPlayers[client] = id
	s.mu.Unlock()

	s.log.Info("client connected", "client", client.Id(), "player", id)
	s.sim.Enqueue(func() { s.sim.Players().Join(id, "player-"+id[:8]) })
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		s.log.Warn("client disconnected", "client", client.Id(), "err", err)
	} else {
		s.log.Info("client disconnected", "client", client.Id())
	}

	s.mu.Lock()
	id, exists := s.clientPlayers[client]
	delete(s.clientPlayers, client)
	s.mu.Unlock()

	if exists {
		s.sim.Enqueue(func() { s.sim.Players().Leave(id) })
	}
}

func (s *Server) onJoinRequest(client *router.NetworkClient, req messages.JoinRequest) {
	id, ok := s.playerFor(client)
	if !ok {
		return
	}
	if s.opts.Version != "" && req.Version != s.opts.Version {
		s.log.Warn("client version mismatch", "client", client.Id(), "version", req.Version, "want", s.opts.Version)
		return
	}
	if req.PlayerName == "" {
		return
	}
	s.sim.Enqueue(func() {
		if err := s.sim.Players().Rename(id, req.PlayerName); err != nil {
			s.log.Warn("rename failed", "player", id, "err", err)
		}
	})
}

func (s *Server) onPlayerInput(client *router.NetworkClient, input messages.PlayerInput) {
	id, ok := s.playerFor(client)
	if !ok {
		return
	}
	// Join may still be queued; inputs for a missing player are dropped
	s.sim.Enqueue(func() { _ = s.sim.Players().SetInput(id, input) })
}

func (s *Server) playerFor(client *router.NetworkClient) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.clientPlayers[client]
	return id, ok
}

// watchTypes reloads the boss types file whenever it changes. A file that
// fails to parse keeps the previous definitions.
func (s *Server) watchTypes(w *cfg.Watcher) {
	want := filepath.Clean(s.opts.BossTypesPath)
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(name) != want {
				continue
			}
			types, err := cfg.LoadBossTypes(want)
			if err != nil {
				s.log.Error("boss types reload failed", "err", err)
				continue
			}
			s.sim.Enqueue(func() { s.sim.SetTypes(types) })
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("watch error", "err", err)
		}
	}
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of connected players
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clientPlayers)
}

// esyncer marks entities for replication through necs.
type esyncer struct {
	world donburi.World
}

func (e esyncer) SyncBoss(entity *donburi.Entity) error {
	return srvsync.NetworkSync(e.world, entity,
		srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetVelocity, netcomponents.NetBoss),
	)
}

func (e esyncer) SyncPlayer(entity *donburi.Entity) error {
	return srvsync.NetworkSync(e.world, entity,
		srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetVelocity),
		netcomponents.NetPlayerState,
	)
}

func (e esyncer) SyncLoot(entity *donburi.Entity) error {
	return srvsync.NetworkSync(e.world, entity, netcomponents.NetPosition, netcomponents.NetLoot)
}
