package dto

// SetLanguageRequest selects the session language by display name
// (e.g. "english", "arabic", "auto").
type SetLanguageRequest struct {
	Language string `json:"language"`
}

// StatusResponse is the generic status/message shape used by the
// set-language, end-chat and get-pdf endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
