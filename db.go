package gridbase

import (
	"context"
	"encoding/json"
)

// DatabaseManager accesses the platform database service. Objects are
// addressed through model-scoped handles:
//
//	orders := client.DB().Model("orders")
//	raw, err := orders.Get(ctx, orderID)
type DatabaseManager struct {
	fetcher *fetcher
}

// Model returns a handle scoped to the named model. Handles are cheap value
// objects holding no server state and can be created freely.
func (m *DatabaseManager) Model(name string) *ModelManager {
	return &ModelManager{name: name, fetcher: m.fetcher}
}

// ModelManager issues object operations against a single database model.
type ModelManager struct {
	name    string
	fetcher *fetcher
}

// ListOptions narrows and pages a List call. Zero-valued fields are omitted
// from the outgoing request body.
type ListOptions struct {
	// Filter is a platform filter expression, e.g. `price > 100`.
	Filter string
	// Sort is the field to sort by, prefixed with "-" for descending.
	Sort string
	// Page is the 1-based page to return.
	Page int
	// Limit caps the number of returned objects.
	Limit int
}

// Get fetches a single object by id.
func (m *ModelManager) Get(ctx context.Context, id string) (json.RawMessage, error) {
	body := map[string]interface{}{
		"model": m.name,
		"id":    id,
	}
	var payload json.RawMessage
	if err := m.fetcher.post(ctx, "/_api/rest/v1/db/object/get", body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Create inserts a new object with the given field values and returns the
// created object.
func (m *ModelManager) Create(ctx context.Context, values interface{}) (json.RawMessage, error) {
	body := map[string]interface{}{
		"model":  m.name,
		"values": values,
	}
	var payload json.RawMessage
	if err := m.fetcher.post(ctx, "/_api/rest/v1/db/object/create", body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Update sets the given field values on the object with id and returns the
// updated object.
func (m *ModelManager) Update(ctx context.Context, id string, values interface{}) (json.RawMessage, error) {
	body := map[string]interface{}{
		"model":  m.name,
		"id":     id,
		"values": values,
	}
	var payload json.RawMessage
	if err := m.fetcher.post(ctx, "/_api/rest/v1/db/object/update", body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Delete removes the object with id. Any response payload is discarded.
func (m *ModelManager) Delete(ctx context.Context, id string) error {
	body := map[string]interface{}{
		"model": m.name,
		"id":    id,
	}
	return m.fetcher.postDiscard(ctx, "/_api/rest/v1/db/object/delete", body)
}

// List returns the objects of the model matching opts. A nil opts lists the
// first page with server defaults.
func (m *ModelManager) List(ctx context.Context, opts *ListOptions) (json.RawMessage, error) {
	body := map[string]interface{}{
		"model": m.name,
	}
	if opts != nil {
		if opts.Filter != "" {
			body["filter"] = opts.Filter
		}
		if opts.Sort != "" {
			body["sort"] = opts.Sort
		}
		if opts.Page > 0 {
			body["page"] = opts.Page
		}
		if opts.Limit > 0 {
			body["limit"] = opts.Limit
		}
	}
	var payload json.RawMessage
	if err := m.fetcher.post(ctx, "/_api/rest/v1/db/object/list", body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
