// Package app wires the board together. A Client owns the backend
// connection, the session, the live category store and the dispatcher, so UIs
// and CLIs can share one lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tableflip.dev/board/pkg/board"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/config"
	"tableflip.dev/board/pkg/dispatch"
	"tableflip.dev/board/pkg/docstore"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/identity"
	"tableflip.dev/board/pkg/logging"
	"tableflip.dev/board/pkg/session"
	"tableflip.dev/board/pkg/view"
)

// Client is an open connection to one board.
type Client struct {
	Config     *config.Config
	Backend    docstore.Backend
	Session    *session.Session
	Store      *board.Store
	Dispatcher *dispatch.Dispatcher
	Router     *view.Router

	log    *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Options adjust how Open builds a client.
type Options struct {
	Logger *slog.Logger
	// Backend replaces the backend named in the config.
	Backend docstore.Backend
	// Provider replaces the token provider built from the config.
	Provider identity.Provider
}

// Open validates cfg, connects the backend, signs in and starts the live
// subscriptions. An unconfigured board logs once and returns
// config.ErrNotConfigured.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Client, error) {
	log := logging.OrDefault(opts.Logger)
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrNotConfigured) {
			log.Error("board not configured, nothing will load", "error", err)
		}
		return nil, err
	}

	backend := opts.Backend
	if backend == nil {
		var err error
		if backend, err = openBackend(cfg); err != nil {
			log.Error("opening backend failed", "backend", cfg.Backend, "error", err)
			return nil, err
		}
	}

	provider := opts.Provider
	if provider == nil {
		provider = identity.NewTokenProvider(cfg.Secret, cfg.Issuer)
	}

	sess := session.New(provider, cfg.Token, log)
	sess.SetAdmin(cfg.Admin)
	store := board.New(backend, cfg.AppID, log)

	runCtx, cancel := context.WithCancel(context.Background())
	c := &Client{
		Config:     cfg,
		Backend:    backend,
		Session:    sess,
		Store:      store,
		Dispatcher: dispatch.New(backend, sess, cfg.AppID, log),
		Router:     view.NewRouter(nil),
		log:        log.With("component", "app"),
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		if err := store.Run(runCtx, sess); err != nil {
			c.log.Error("store stopped", "error", err)
		}
	}()

	sess.Start(ctx)
	c.log.Info("board open", "app_id", cfg.AppID, "backend", cfg.Backend)
	return c, nil
}

func openBackend(cfg *config.Config) (docstore.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return docstore.NewMemory(), nil
	case config.BackendDisk, "":
		d, err := docstore.OpenDisk(cfg.BasePath())
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("app: unknown backend %q", cfg.Backend)
	}
}

// Close stops the subscriptions and closes the backend. It is safe to call
// more than once.
func (cl *Client) Close() error {
	var err error
	cl.once.Do(func() {
		cl.cancel()
		<-cl.done
		err = errors.Join(cl.Store.Close(), cl.Backend.Close())
		cl.log.Info("board closed")
	})
	return err
}

// Snapshot returns the current contents of c straight from the backend,
// without waiting on the live store.
func (cl *Client) Snapshot(ctx context.Context, c category.Category) ([]*entry.Entry, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", dispatch.ErrUnknownCategory, c)
	}
	type result struct {
		docs []docstore.Document
		err  error
	}
	got := make(chan result, 1)
	send := func(r result) {
		select {
		case got <- r:
		default:
		}
	}
	unsub, err := cl.Backend.Subscribe(ctx, cl.Store.Path(c),
		func(docs []docstore.Document) { send(result{docs: docs}) },
		func(err error) { send(result{err: err}) })
	if err != nil {
		return nil, fmt.Errorf("app: snapshot %s: %w", c, err)
	}
	defer unsub()

	select {
	case r := <-got:
		if r.err != nil {
			return nil, fmt.Errorf("app: snapshot %s: %w", c, r.err)
		}
		return entry.FromDocuments(c, r.docs), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Find looks up id in c.
func (cl *Client) Find(ctx context.Context, c category.Category, id string) (*entry.Entry, error) {
	all, err := cl.Snapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	for _, e := range all {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("app: %s/%s: %w", c, id, docstore.ErrNotFound)
}

// Add creates an entry in c from draft after normalizing it.
func (cl *Client) Add(ctx context.Context, c category.Category, draft map[string]any) (string, error) {
	f := cl.Router.Form()
	if err := f.StartCreate(c); err != nil {
		return "", err
	}
	defer f.Cancel()
	for k, v := range draft {
		f.SetField(k, v)
	}
	return cl.Dispatcher.SubmitForm(ctx, f)
}

// Edit merges changes into entry id of c. Only the named fields change.
func (cl *Client) Edit(ctx context.Context, c category.Category, id string, changes map[string]any) error {
	current, err := cl.Find(ctx, c, id)
	if err != nil {
		return err
	}
	f := cl.Router.Form()
	if err := f.StartEdit(c, current); err != nil {
		return err
	}
	defer f.Cancel()
	for k, v := range changes {
		f.SetField(k, v)
	}
	_, err = cl.Dispatcher.SubmitForm(ctx, f)
	return err
}

// Delete removes entry id from c.
func (cl *Client) Delete(ctx context.Context, c category.Category, id string) error {
	return cl.Dispatcher.Delete(ctx, c, id)
}
