package generation

import "errors"

var (
	ErrGenerationNotFound = errors.New("generation not found")
	ErrInvalidState       = errors.New("invalid generation state")
	ErrEmptyPrompt        = errors.New("prompt cannot be empty")
	ErrPromptTooLong      = errors.New("prompt exceeds maximum length")
	ErrNotOwner           = errors.New("generation belongs to another user")
)
