package identity

// SetPlan changes a user's plan in the in-memory store so tests can exercise
// paid-plan paths.
func SetPlan(repo Repository, id, plan string) {
	if mem, ok := repo.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if user, ok := mem.users[id]; ok {
			user.Plan = plan
			mem.users[id] = user
		}
	}
}
