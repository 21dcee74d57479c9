package rollout

import "sync"

// targetLocks enforces at-most-one-active-deployment-per-target. A lock is
// held for the full provisioning-to-terminal span of a deployment.
type targetLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newTargetLocks() *targetLocks {
	return &targetLocks{held: make(map[string]struct{})}
}

// TryAcquire takes the lock for target, reporting false if already held.
func (l *targetLocks) TryAcquire(target string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[target]; ok {
		return false
	}
	l.held[target] = struct{}{}
	return true
}

// Release frees the lock for target, reporting false if it was not held.
// A false return means future deployments to the target would block
// forever; callers must treat it as an operator-alert condition.
func (l *targetLocks) Release(target string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[target]; !ok {
		return false
	}
	delete(l.held, target)
	return true
}
