package remote

import "errors"

// Sentinel kinds for remote inference failures. These never propagate past
// the adapter boundary; they exist for logging and tests.
var (
	ErrUnavailable  = errors.New("remote model unavailable")
	ErrModelLoading = errors.New("remote model still loading")
	ErrEmptyReply   = errors.New("remote model returned no text")
	ErrAmbiguous    = errors.New("remote model reply has no unambiguous severity")
)
