package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrSessionNotActive  = errors.New("session is not active")
	ErrRecipeOutOfRange  = errors.New("recipe index out of range")
	ErrVariationNotFound = errors.New("variation not found")
	ErrNoRecipes         = errors.New("analysis has no recipes")
	ErrInvalidAnalysis   = errors.New("invalid analysis payload")
	ErrUnknownFormat     = errors.New("unknown analysis file format")
	ErrAlreadyExists     = errors.New("already exists")
)
