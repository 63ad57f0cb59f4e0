// Package token mints sign-in tokens for the board.
package token

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/board/pkg/identity"
)

type Token struct {
	Secret string
	Issuer string
	UserID string
	TTL    time.Duration
	Out    io.Writer
}

// Do prints a token that signs in as UserID.
func (t *Token) Do(_ context.Context) error {
	if t.UserID == "" {
		return errors.New("requires a user id")
	}
	p := identity.NewTokenProvider(t.Secret, t.Issuer)
	signed, err := p.Issue(t.UserID, t.TTL)
	if err != nil {
		return err
	}
	out := t.Out
	if out == nil {
		out = color.Output
	}
	_, err = fmt.Fprintln(out, signed)
	return err
}
