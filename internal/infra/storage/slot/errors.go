package slot

import "errors"

var (
	// ErrNoTransaction возвращается при попытке взять блокировку корт-день вне транзакции
	ErrNoTransaction = errors.New("slot.repository: advisory lock requires a transaction")

	ErrBuildQuery = errors.New("slot.repository: failed to build query")
	ErrExecQuery  = errors.New("slot.repository: failed to execute query")
	ErrScanRow    = errors.New("slot.repository: failed to scan row")
)
