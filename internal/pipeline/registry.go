package pipeline

import "sync"

// liveProcess pairs a registry entry with the process handle it describes.
type liveProcess struct {
	entry Entry
	proc  *process
}

// registry is the single source of truth for live processes. Entries are
// inserted only after a spawn has produced a PID and removed exactly once,
// either when the exit watcher observes the process die or when a stop
// operation completes.
//
// The keyed lock table serializes start/stop per key so the idempotency
// check ("does an entry exist?") and the subsequent insert act as one
// atomic step. Reads (exists, snapshot) stay concurrent under the RWMutex.
type registry struct {
	mu      sync.RWMutex
	entries map[Key]*liveProcess

	lockMu sync.Mutex
	locks  map[Key]*sync.Mutex
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[Key]*liveProcess),
		locks:   make(map[Key]*sync.Mutex),
	}
}

// lockKey acquires the per-key mutex and returns its release function.
func (r *registry) lockKey(key Key) func() {
	r.lockMu.Lock()
	mu, ok := r.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		r.locks[key] = mu
	}
	r.lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// put registers a live process under its key. Caller must hold the key lock
// and must have verified the key is vacant.
func (r *registry) put(entry Entry, proc *process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.key()] = &liveProcess{entry: entry, proc: proc}
}

// get returns the live process for key, if any.
func (r *registry) get(key Key) (*liveProcess, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lp, ok := r.entries[key]
	return lp, ok
}

// exists reports whether a live entry is registered for key.
func (r *registry) exists(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// remove deletes the entry for key, but only while it still refers to proc.
// Both the exit watcher and the stop path call this; the proc guard makes
// the removal happen exactly once per registration even when they race with
// a later re-registration of the same key.
func (r *registry) remove(key Key, proc *process) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	lp, ok := r.entries[key]
	if !ok || lp.proc != proc {
		return false
	}
	delete(r.entries, key)
	return true
}

// snapshot returns a copy of all registered entries.
func (r *registry) snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, lp := range r.entries {
		out = append(out, lp.entry)
	}
	return out
}

// keys returns the keys of all registered entries.
func (r *registry) keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	return out
}

// size returns the number of registered entries.
func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
