package lock_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// LockRequest диапазон корта, который владелец закрывает
type LockRequest struct {
	CourtID int64
	Range   types.TimeRange
}

// Request модель запроса на блокировку слотов владельцем
type Request struct {
	Caller  domain.Caller
	FieldID int64
	Date    time.Time
	Locks   []LockRequest
}

// LockResult результат по одному диапазону
type LockResult struct {
	CourtID int64
	Range   types.TimeRange
	Outcome domain.LockOutcome
}

// Response модель ответа, результаты в порядке запроса
type Response struct {
	Results []LockResult
}
