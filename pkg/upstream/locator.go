package upstream

import "net/url"

// Locator is the fully-formed descriptor of one remote call: method,
// path, query and body. Handlers construct it from validated inputs;
// the client only adds the credential and executes it.
type Locator struct {
	// Operation is the logical endpoint tag, used for logging and
	// metrics labels only.
	Operation string

	// Method is the HTTP method (GET or POST).
	Method string

	// Path is the upstream path, e.g. "/recipes/12345/information".
	Path string

	// Query holds the query parameters. The API key is appended by the
	// client, never by the caller.
	Query url.Values

	// Body is the JSON request body for POST operations, nil for GET.
	Body []byte
}

// Get builds a locator for a GET call.
func Get(operation, path string, query url.Values) Locator {
	return Locator{
		Operation: operation,
		Method:    "GET",
		Path:      path,
		Query:     query,
	}
}

// Post builds a locator for a POST call with a JSON body.
func Post(operation, path string, query url.Values, body []byte) Locator {
	return Locator{
		Operation: operation,
		Method:    "POST",
		Path:      path,
		Query:     query,
		Body:      body,
	}
}
