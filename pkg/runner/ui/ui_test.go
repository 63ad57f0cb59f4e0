package ui

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/config"
	"tableflip.dev/board/pkg/logging"
)

func TestUINeedsClient(t *testing.T) {
	u := &UI{}
	if err := u.Do(context.Background()); err == nil {
		t.Fatalf("expected an error without a client")
	}
}

func TestUINeedsTerminal(t *testing.T) {
	c, err := app.Open(context.Background(), &config.Config{AppID: "test-app", Backend: config.BackendMemory}, app.Options{Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	u := &UI{Client: c, IsTerminal: func(uintptr) bool { return false }}
	if err := u.Do(context.Background()); !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("expected ErrNoTerminal, got %v", err)
	}
}
