package mock

import "net/http/httptest"

// HTTPTestServer runs a Backend on an httptest.Server.
type HTTPTestServer struct {
	*Backend
	Server *httptest.Server
	// BaseURL is the API root clients should be configured with.
	BaseURL string
}

func NewHTTPTestServer(opts ...Option) (*HTTPTestServer, error) {
	backend, err := NewBackend(opts...)
	if err != nil {
		return nil, err
	}
	server := &HTTPTestServer{Backend: backend}
	server.Server = httptest.NewServer(backend.Handler())
	server.BaseURL = server.Server.URL + BasePath
	return server, nil
}

func (s *HTTPTestServer) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
	s.Server = nil
}
