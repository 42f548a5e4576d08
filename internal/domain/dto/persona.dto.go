package dto

// UserPersonaUpdate wraps the replacement persona document sent by the
// frontend to POST /api/update-user-persona.
type UserPersonaUpdate struct {
	Data map[string]any `json:"data"`
}

// UpdateResult acknowledges a persona write.
type UpdateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
