package ledger

// SeedBalance is a test helper that sets the held balance directly when using
// the in-memory store.
func SeedBalance(s Store, amount int64) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balance = amount
	}
}
