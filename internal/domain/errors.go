package domain

import "errors"

var (
	ErrNoTemplates       = errors.New("no templates registered")
	ErrSessionExpired    = errors.New("session expired")
	ErrInvalidTransition = errors.New("selection does not match the current step")
	ErrUnknownTemplate   = errors.New("template was not among the offered options")
	ErrUnknownVolume     = errors.New("volume was not among the offered options")
	ErrInvalidGPU        = errors.New("invalid gpu selection")
	ErrInvalidPodID      = errors.New("invalid pod id")
)
