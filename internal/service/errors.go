package service

import "errors"

// ErrRender wraps any failure to produce a rendered template.
var ErrRender = errors.New("failed to render template")
