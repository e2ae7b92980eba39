package lock_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	lockSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/lock_slots"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type LockRangeRequest struct {
	CourtID int64  `json:"courtId" validate:"required,gt=0"`
	Start   string `json:"start" validate:"required"`
	End     string `json:"end" validate:"required"`
}

// LockSlotsRequest HTTP request model
type LockSlotsRequest struct {
	Date  string             `json:"date" validate:"required"`
	Locks []LockRangeRequest `json:"locks" validate:"required,min=1,dive"`
}

func (r *LockSlotsRequest) ToUseCaseRequest(caller domain.Caller, fieldID int64) (*lockSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", r.Date, err)
	}

	locks := make([]lockSlots.LockRequest, 0, len(r.Locks))
	for _, l := range r.Locks {
		rng, err := types.NewTimeRange(l.Start, l.End)
		if err != nil {
			return nil, fmt.Errorf("court %d: %w", l.CourtID, err)
		}
		locks = append(locks, lockSlots.LockRequest{CourtID: l.CourtID, Range: rng})
	}

	return &lockSlots.Request{
		Caller:  caller,
		FieldID: fieldID,
		Date:    date,
		Locks:   locks,
	}, nil
}

type LockResultResponse struct {
	CourtID int64  `json:"courtId"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Outcome string `json:"outcome"` // created | skipped
}

type LockSlotsResponse struct {
	FieldID int64                `json:"fieldId"`
	Date    string               `json:"date"`
	Results []LockResultResponse `json:"results"`
}

func FromUseCaseResponse(fieldID int64, date time.Time, resp *lockSlots.Response) *LockSlotsResponse {
	results := make([]LockResultResponse, 0, len(resp.Results))
	for _, res := range resp.Results {
		results = append(results, LockResultResponse{
			CourtID: res.CourtID,
			Start:   res.Range.Start.String(),
			End:     res.Range.End.String(),
			Outcome: string(res.Outcome),
		})
	}
	return &LockSlotsResponse{
		FieldID: fieldID,
		Date:    date.Format(domain.DateFormat),
		Results: results,
	}
}
