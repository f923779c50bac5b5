package domain

// TaskStats aggregates task counts for the statistics endpoint. Soft-deleted
// tasks are excluded from every bucket.
type TaskStats struct {
	Total      int
	ByStatus   map[TaskStatus]int
	ByPriority map[TaskPriority]int
	Overdue    int
}
