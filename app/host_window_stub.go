//go:build !cgo

package app

import "errors"

type WindowConfig struct {
	Title         string
	Width, Height int
	Scale         int
}

func RunWindow(_ *Animator, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
