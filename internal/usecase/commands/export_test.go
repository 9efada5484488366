//go:build unit

package commands

// SessionCount reports how many poll sessions the poller still holds.
func SessionCount(p SettlementPoller) int {
	impl := p.(*settlementPollerImpl)
	impl.mu.Lock()
	defer impl.mu.Unlock()
	return len(impl.sessions)
}
