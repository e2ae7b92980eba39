package lock_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Caller.ID <= 0 {
		return fmt.Errorf("%w: caller is required", ErrInvalidInput)
	}

	if req.FieldID <= 0 {
		return fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.Locks) == 0 {
		return fmt.Errorf("%w: at least one range is required", ErrInvalidInput)
	}

	for i, l := range req.Locks {
		if l.CourtID <= 0 {
			return fmt.Errorf("%w: locks[%d]: courtID must be positive", ErrInvalidInput, i)
		}
		if err := l.Range.Start.Validate(); err != nil {
			return fmt.Errorf("%w: locks[%d]: invalid startTime: %v", ErrInvalidInput, i, err)
		}
		if err := l.Range.End.Validate(); err != nil {
			return fmt.Errorf("%w: locks[%d]: invalid endTime: %v", ErrInvalidInput, i, err)
		}
	}

	return nil
}
