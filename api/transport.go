package api

import "net/http"

// initDataTransport attaches the host-provided signed init-data blob as a
// bearer-style credential. When the provider yields nothing the request
// goes out uncredentialed; absence never blocks dispatch.
type initDataTransport struct {
	next     http.RoundTripper
	initData func() string
}

func (t *initDataTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if blob := t.initData(); blob != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "tma "+blob)
	}
	return t.next.RoundTrip(req)
}
