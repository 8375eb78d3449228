package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HeaderRequestID is stamped on every outgoing request for log correlation.
const HeaderRequestID = "X-Request-Id"

// authTransport intercepts every request and response. Outgoing: attach the
// stored credential as a single bearer Authorization header, or nothing when
// logged out. Incoming: a 401 on any call clears the stored credential and
// notifies subscribers, then the original response is handed back untouched.
type authTransport struct {
	next        http.RoundTripper
	creds       CredentialSource
	invalidated func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}

	if token, ok := t.creds.AccessToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", req.Header.Get(HeaderRequestID)).
			Msg("backend rejected credential, clearing session")

		if err := t.creds.Clear(); err != nil {
			log.Error().Err(err).Msg("failed to clear stored credential")
		}

		if t.invalidated != nil {
			t.invalidated()
		}
	}

	return resp, nil
}
