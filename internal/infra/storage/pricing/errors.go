package pricing

import "errors"

var (
	// ErrSpecialTimeNotFound возвращается, когда для корта нет специального времени
	ErrSpecialTimeNotFound = errors.New("pricing.repository: special time not found")

	// ErrRuleNotFound возвращается, когда ни одно правило цены не покрывает диапазон
	ErrRuleNotFound = errors.New("pricing.repository: price rule not found")

	// ErrOpeningHoursNotFound возвращается, когда для дня недели нет часов работы
	ErrOpeningHoursNotFound = errors.New("pricing.repository: opening hours not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("pricing.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("pricing.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("pricing.repository: failed to scan row")
)
