package state

import "sync"

type Phase int

const (
	BOOTING Phase = iota
	READY
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case READY:
		return "ready"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

type NetworkInfo struct {
	IP    string
	URL   string
	URLQR string
}

type ClientInfo struct {
	Connected int
	LastID    string
}

type State struct {
	Phase   Phase
	Network NetworkInfo
	Clients ClientInfo
	Message string
}

type Store struct {
	mu    sync.RWMutex
	state State
	seq   uint64
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// Seq increments on every update so renderers can skip unchanged frames.
func (store *Store) Seq() uint64 {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.seq
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.seq++
	store.mu.Unlock()
}

func (store *Store) SetMessage(message string) {
	store.mu.Lock()
	store.state.Message = message
	store.seq++
	store.mu.Unlock()
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.seq++
	store.mu.Unlock()
}

func (store *Store) ClientConnected(id string) {
	store.mu.Lock()
	store.state.Clients.Connected++
	store.state.Clients.LastID = id
	store.seq++
	store.mu.Unlock()
}

func (store *Store) ClientDisconnected() {
	store.mu.Lock()
	if store.state.Clients.Connected > 0 {
		store.state.Clients.Connected--
	}
	store.seq++
	store.mu.Unlock()
}
