package cache

import "errors"

var (
	// ErrConnect возвращается, если Redis недоступен при старте
	ErrConnect = errors.New("cache: failed to connect to redis")

	ErrEncode = errors.New("cache: failed to encode value")
	ErrDecode = errors.New("cache: failed to decode value")
	ErrRedis  = errors.New("cache: redis command failed")
)
