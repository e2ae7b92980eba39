package directory

import "errors"

var (
	ErrFieldNotFound = errors.New("directory.repository: field not found")
	ErrCourtNotFound = errors.New("directory.repository: court not found")

	ErrBuildQuery = errors.New("directory.repository: failed to build query")
	ErrScanRow    = errors.New("directory.repository: failed to scan row")
)
