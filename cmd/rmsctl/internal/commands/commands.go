package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/crglab/rmsctl/internal/config"
	"github.com/crglab/rmsctl/internal/gateway"
	"github.com/crglab/rmsctl/internal/rms"
	"github.com/crglab/rmsctl/internal/session"
)

type Globals struct {
	Debug   bool
	Config  string
	Server  string
	Version string
}

// app bundles the session store, gateway, session and resource client wired
// together once per invocation. The gateway's invalidation event is routed
// to a stderr notice; the gateway itself never decides what to do next.
type app struct {
	cfg     *config.Config
	store   *session.Store
	gw      *gateway.Gateway
	session *session.Session
	client  *rms.Client
}

func newApp(globals *Globals) (*app, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	if globals.Server != "" {
		cfg.BaseURL = globals.Server
	}

	store, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	var opts []gateway.Option
	if cfg.CacheDir != "" {
		opts = append(opts, gateway.WithTransport(gateway.NewCachingTransport(cfg.CacheDir)))
	}

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, store, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gateway: %w", err)
	}

	gw.OnSessionInvalidated(func() {
		fmt.Fprintln(os.Stderr, "Session is no longer valid. Run 'rmsctl login' to sign in again.")
	})

	return &app{
		cfg:     cfg,
		store:   store,
		gw:      gw,
		session: session.New(store, gw),
		client:  rms.NewClient(gw),
	}, nil
}

// requireUser restores the session and fails with guidance when logged out.
func (a *app) requireUser(ctx context.Context) (*session.User, error) {
	user, err := a.session.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("not logged in\n\nRun 'rmsctl login <username>' to sign in")
	}
	return user, nil
}

func roleLabel(user *session.User) string {
	if user.Degraded {
		return user.Role + " (unconfirmed)"
	}
	return user.Role
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func boolMark(v bool) string {
	if v {
		return "*"
	}
	return ""
}
