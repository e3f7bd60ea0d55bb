package errors

import "net/http"

const CodeInvalidInput = "INVALID_INPUT"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidSubtotal = New(
		"INVALID_SUBTOTAL",
		"Subtotal must be a non-negative decimal",
		http.StatusBadRequest,
	)

	ErrInvalidTimestamp = New(
		"INVALID_TIMESTAMP",
		"Invalid order timestamp",
		http.StatusBadRequest,
	)

	ErrInvalidOrdering = New(
		"INVALID_ORDERING",
		"Invalid ordering parameter",
		http.StatusBadRequest,
	)

	ErrOrderNotFound = New(
		"ORDER_NOT_FOUND",
		"Order not found",
		http.StatusNotFound,
	)

	ErrImportFileMissing = New(
		"IMPORT_FILE_MISSING",
		"No file was uploaded",
		http.StatusBadRequest,
	)

	ErrImportDecodeFailed = New(
		"IMPORT_DECODE_FAILED",
		"Uploaded file could not be decoded as text",
		http.StatusBadRequest,
	)

	ErrImportParseFailed = New(
		"IMPORT_PARSE_FAILED",
		"Uploaded file could not be parsed as delimited records",
		http.StatusBadRequest,
	)

	ErrJobNotFound = New(
		"JOB_NOT_FOUND",
		"Import job not found",
		http.StatusNotFound,
	)

	ErrResolverUnavailable = New(
		"RESOLVER_UNAVAILABLE",
		"Geocode resolver failed",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrQueueError = New(
		"QUEUE_ERROR",
		"Task queue operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
