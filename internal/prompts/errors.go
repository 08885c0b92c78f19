package prompts

import "errors"

// Domain errors for prompt operations.
var (
	ErrNotFound    = errors.New("prompt template not found")
	ErrUnresolved  = errors.New("unresolved template placeholder")
	ErrEmptyRender = errors.New("rendered prompt is empty")
)
