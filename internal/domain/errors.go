package domain

import "errors"

// Бизнес-ошибки, общие для всех слоёв
// Слои оборачивают их через fmt.Errorf("%w: ...", ...), хендлеры сопоставляют через errors.Is
var (
	// ErrInvalidRange пустой, перевёрнутый или выходящий за границы временной диапазон
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInvalidGranularity длительность или отступ от границ не кратны min_rental
	ErrInvalidGranularity = errors.New("time range is not aligned to minimum rental")

	// ErrRangeMismatch запрос частично пересекает специальное время корта
	ErrRangeMismatch = errors.New("time range does not match special time")

	// ErrConfigurationMissing нет часов работы для цены
	ErrConfigurationMissing = errors.New("pricing configuration missing")

	// ErrSlotUnavailable слот уже занят бронированием или блокировкой владельца
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrPastOrTooSoon слот заканчивается раньше чем через 30 минут
	ErrPastOrTooSoon = errors.New("slot is in the past or too soon")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")

	ErrAlreadyConfirmed  = errors.New("booking already confirmed")
	ErrAlreadyCompleted  = errors.New("booking already completed")
	ErrNotCancellable    = errors.New("booking cannot be cancelled")
	ErrAlreadyProcessed  = errors.New("booking already processed")
	ErrInvalidTransition = errors.New("booking status does not allow this transition")

	// ErrPaymentOverdue бронирование не оплачено вовремя и было отменено
	ErrPaymentOverdue = errors.New("payment overdue, booking cancelled")
)
