package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingImage      = errors.New("source image is required")
	ErrEmptyPrompt       = errors.New("prompt is required")
	ErrGenerationFailed  = errors.New("failed to generate image")
	ErrNoPlan            = errors.New("no usable generation plan returned")
	ErrNotConfigured     = errors.New("platform is not configured")
	ErrDuplicatePreset   = errors.New("preset id already exists")
	ErrComplianceMissing = errors.New("compliance acknowledgement is required")
)
