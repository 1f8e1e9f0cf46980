package entity

// RequestSpec describes one HTTP call a provider adapter wants the engine to make.
type RequestSpec struct {
	URL     string
	Body    any
	Chain   ChainID
	Address string // optional; the engine falls back to the address passed to Execute
}

// HTTPRequest is the transport-level request built from a RequestSpec.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// HTTPResponse is the raw transport response.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}
