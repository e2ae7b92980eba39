package check_slot_lock

// SlotLockResponse HTTP response model
type SlotLockResponse struct {
	CourtID int64  `json:"courtId"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Locked  bool   `json:"locked"`
}
