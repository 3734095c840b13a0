package leads

// Count reports how many leads an in-memory repository holds.
func Count(repo Repository) int {
	if mem, ok := repo.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		return len(mem.leads)
	}
	return -1
}
