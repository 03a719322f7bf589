package model

// PriorityCounts breaks todo counts down by priority.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Stats is the per-user usage summary.
type Stats struct {
	TotalTodos      int            `json:"totalTodos"`
	CompletedTodos  int            `json:"completedTodos"`
	PendingTodos    int            `json:"pendingTodos"`
	TotalFiles      int            `json:"totalFiles"`
	TotalFilesSize  int64          `json:"totalFilesSize"`
	TotalMessages   int            `json:"totalMessages"`
	TodosByPriority PriorityCounts `json:"todosByPriority"`
}
