package dto

import "sekolah-backend/internal/schema"

type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  []schema.FieldError `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse carries the hex id assigned by the store on insert.
type CreatedResponse struct {
	ID string `json:"_id"`
}
