package failures

func (t *Tracker) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
