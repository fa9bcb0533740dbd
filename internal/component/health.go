package component

type Health struct {
	Current int
	Max     int
}

// Apply subtracts amount and reports whether the entity is dead.
func (h *Health) Apply(amount int) bool {
	h.Current -= amount
	return h.Current <= 0
}
