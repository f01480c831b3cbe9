package ditest

import (
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// App wraps fxtest.App.
type App struct {
	app *fxtest.App
}

// New builds a test app from opts.
func New(t testing.TB, opts ...fx.Option) *App {
	t.Helper()
	return &App{app: fxtest.New(t, opts...)}
}

// RequireStart starts the app and fails the test on error.
func (a *App) RequireStart() *App {
	a.app.RequireStart()
	return a
}

// RequireStop stops the app and fails the test on error.
func (a *App) RequireStop() *App {
	a.app.RequireStop()
	return a
}

// Err returns the error fx hit while building the graph.
func (a *App) Err() error {
	return a.app.Err()
}

// Fx exposes the underlying fxtest.App.
func (a *App) Fx() *fxtest.App {
	return a.app
}
