package relay

import "errors"

// Sentinel errors for relay operations. All of them map to 500.
var (
	// ErrMalformedModelOutput means the model did not answer with a JSON array.
	ErrMalformedModelOutput = errors.New("GPT response not in expected JSON-array format")

	// ErrExternalAPI matches every failure of the upstream model call.
	ErrExternalAPI = errors.New("external API error")
)

// ExternalAPIError wraps a failed upstream call. Its message is the upstream
// message unchanged so clients see what the provider said.
type ExternalAPIError struct {
	Endpoint string
	Err      error
}

func (e *ExternalAPIError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both the sentinel and the upstream error.
func (e *ExternalAPIError) Unwrap() []error {
	return []error{ErrExternalAPI, e.Err}
}
