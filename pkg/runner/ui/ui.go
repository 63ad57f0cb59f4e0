// Package ui launches the full-screen board.
package ui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/board/pkg/app"
	teaui "tableflip.dev/board/pkg/tui/app"
)

// ErrNoTerminal is returned when stdin or stdout is not a terminal.
var ErrNoTerminal = errors.New("board ui needs a terminal, try board watch instead")

type UI struct {
	Client *app.Client

	// IsTerminal reports whether fd is interactive. Nil uses isatty.
	IsTerminal func(fd uintptr) bool
}

func (u *UI) Do(ctx context.Context) error {
	if u.Client == nil {
		return errors.New("can not start ui, no client")
	}
	isTerm := u.IsTerminal
	if isTerm == nil {
		isTerm = func(fd uintptr) bool {
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		}
	}
	if !isTerm(os.Stdin.Fd()) || !isTerm(os.Stdout.Fd()) {
		return ErrNoTerminal
	}
	return teaui.Run(ctx, u.Client)
}
