package gridbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// EndpointManager invokes the app's own service endpoints. Payloads are
// returned as raw JSON; use Decode to map them onto a concrete type.
type EndpointManager struct {
	fetcher *fetcher
}

// Get invokes the endpoint at path with an optional query and returns the
// raw JSON payload.
//
// Example:
//
//	raw, err := client.Endpoint().Get(ctx, "/orders/open", nil)
//	if err != nil {
//	    return err
//	}
//	orders, err := gridbase.Decode[[]Order](raw)
func (m *EndpointManager) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := m.fetcher.Send(ctx, http.MethodGet, path, &requestOptions{query: query, resolve: ResolveJSON}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Post invokes the endpoint at path with a JSON body and returns the raw
// JSON payload.
func (m *EndpointManager) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := m.fetcher.Send(ctx, http.MethodPost, path, &requestOptions{body: body, resolve: ResolveJSON}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Put invokes the endpoint at path with a JSON body and returns the raw
// JSON payload.
func (m *EndpointManager) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := m.fetcher.Send(ctx, http.MethodPut, path, &requestOptions{body: body, resolve: ResolveJSON}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Delete invokes the endpoint at path with the DELETE method and an
// optional query, discarding any response payload.
func (m *EndpointManager) Delete(ctx context.Context, path string, query url.Values) error {
	return m.fetcher.Send(ctx, http.MethodDelete, path, &requestOptions{query: query, resolve: ResolveNone}, nil)
}

// Decode maps a raw JSON payload onto T. It is a convenience for the
// json.RawMessage values returned by EndpointManager and the database
// manager.
//
// Example:
//
//	raw, _ := client.DB().Model("orders").Get(ctx, id)
//	order, err := gridbase.Decode[Order](raw)
func Decode[T any](payload json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("failed to decode payload: %w", err)
	}
	return out, nil
}
