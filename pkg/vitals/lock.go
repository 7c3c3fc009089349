package vitals

import "sync"

// Lock serializes sample production. It deliberately wraps only the OS-backed
// mutex so it stays usable on error-handling paths where richer
// synchronization in this codebase may not be. Releasing a lock that is not
// held is a programming error and panics.
type Lock struct {
	mu sync.Mutex
}

// Acquire blocks until exclusive ownership is obtained.
func (l *Lock) Acquire() {
	l.mu.Lock()
}

// TryAcquire obtains the lock without blocking. It reports whether the lock
// was acquired.
func (l *Lock) TryAcquire() bool {
	return l.mu.TryLock()
}

// Release returns ownership.
func (l *Lock) Release() {
	l.mu.Unlock()
}

// Locked runs fn while holding the lock. The lock is released on every exit
// path, including panic unwinds.
func (l *Lock) Locked(fn func()) {
	l.Acquire()
	defer l.Release()
	fn()
}
