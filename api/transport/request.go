package transport

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time"`
}

type StatusUpdateRequest struct {
	NewStatus string `json:"new_status"`
}

type PositionsUpdateRequest struct {
	TodoPos       []int64 `json:"todo_pos"`
	InProgressPos []int64 `json:"in_progress_pos"`
	DonePos       []int64 `json:"done_pos"`
}

type BoardCreateRequest struct {
	Title string `json:"title"`
}

type BoardRenameRequest struct {
	Title string `json:"title"`
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	TTL      int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
