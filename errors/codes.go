package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Local engine errors
const (
	// ErrCodeModelLoadFailed indicates the transcription model could not be acquired or loaded.
	ErrCodeModelLoadFailed ErrorCode = "MODEL_LOAD_FAILED"
	// ErrCodeNotInitialized indicates the engine has no usable model source.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"
)

// Audio input errors
const (
	// ErrCodeInvalidAudioData indicates the audio bytes could not be decoded.
	ErrCodeInvalidAudioData ErrorCode = "INVALID_AUDIO_DATA"
	// ErrCodeAudioFileNotFound indicates the audio file does not exist.
	ErrCodeAudioFileNotFound ErrorCode = "AUDIO_FILE_NOT_FOUND"
	// ErrCodeDataEncodingError indicates the request payload could not be encoded.
	ErrCodeDataEncodingError ErrorCode = "DATA_ENCODING_ERROR"
)

// Cloud errors
const (
	// ErrCodeAPIRequestFailed indicates a non-2xx HTTP response.
	ErrCodeAPIRequestFailed ErrorCode = "API_REQUEST_FAILED"
	// ErrCodeNetworkError indicates a transport-level failure.
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	// ErrCodeNoTranscriptionReturned indicates a 2xx response without a transcription.
	ErrCodeNoTranscriptionReturned ErrorCode = "NO_TRANSCRIPTION_RETURNED"
	// ErrCodeRateLimitExceeded indicates the provider rejected the request rate.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInvalidAPIKey indicates the credential was rejected.
	ErrCodeInvalidAPIKey ErrorCode = "INVALID_API_KEY"
	// ErrCodeRequestTooLarge indicates the payload exceeded the provider limit.
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"
	// ErrCodeModelNotAvailable indicates the model identifier is missing or unknown.
	ErrCodeModelNotAvailable ErrorCode = "MODEL_NOT_AVAILABLE"
	// ErrCodeUnsupportedProvider indicates no engine serves the descriptor's backend.
	ErrCodeUnsupportedProvider ErrorCode = "UNSUPPORTED_PROVIDER"
	// ErrCodeMissingAPIKey indicates the descriptor carries no credential.
	ErrCodeMissingAPIKey ErrorCode = "MISSING_API_KEY"
)

// Codes lists every member of the taxonomy.
var Codes = []ErrorCode{
	ErrCodeModelLoadFailed,
	ErrCodeNotInitialized,
	ErrCodeInvalidAudioData,
	ErrCodeAPIRequestFailed,
	ErrCodeNetworkError,
	ErrCodeAudioFileNotFound,
	ErrCodeNoTranscriptionReturned,
	ErrCodeRateLimitExceeded,
	ErrCodeInvalidAPIKey,
	ErrCodeRequestTooLarge,
	ErrCodeModelNotAvailable,
	ErrCodeUnsupportedProvider,
	ErrCodeMissingAPIKey,
	ErrCodeDataEncodingError,
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeNetworkError:      true,
	ErrCodeRateLimitExceeded: true,
	ErrCodeModelLoadFailed:   true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
