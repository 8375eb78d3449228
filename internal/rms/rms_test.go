package rms

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crglab/rmsctl/internal/gateway"
)

type staticCreds struct{}

func (staticCreds) AccessToken() (string, bool) { return "test-token", true }
func (staticCreds) Clear() error                { return nil }

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := gateway.New(gateway.Config{BaseURL: srv.URL}, staticCreds{})
	require.NoError(t, err)

	return NewClient(gw)
}
