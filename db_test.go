package gridbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dbMockServer(t *testing.T) (*httptest.Server, *map[string]interface{}) {
	var lastBody map[string]interface{}
	mux := http.NewServeMux()

	record := func(next func(w http.ResponseWriter, body map[string]interface{})) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			lastBody = body
			next(w, body)
		}
	}

	mux.HandleFunc("/_api/rest/v1/db/object/get", record(func(w http.ResponseWriter, body map[string]interface{}) {
		if body["id"] != "o1" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]interface{}{
					{"status": 404, "code": "object_not_found", "message": "no such object"},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"_id": "o1", "total": 12.5})
	}))

	mux.HandleFunc("/_api/rest/v1/db/object/create", record(func(w http.ResponseWriter, body map[string]interface{}) {
		values := body["values"].(map[string]interface{})
		values["_id"] = "o2"
		json.NewEncoder(w).Encode(values)
	}))

	mux.HandleFunc("/_api/rest/v1/db/object/update", record(func(w http.ResponseWriter, body map[string]interface{}) {
		values := body["values"].(map[string]interface{})
		values["_id"] = body["id"]
		json.NewEncoder(w).Encode(values)
	}))

	mux.HandleFunc("/_api/rest/v1/db/object/delete", record(func(w http.ResponseWriter, body map[string]interface{}) {
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("/_api/rest/v1/db/object/list", record(func(w http.ResponseWriter, body map[string]interface{}) {
		json.NewEncoder(w).Encode([]map[string]interface{}{{"_id": "o1"}, {"_id": "o2"}})
	}))

	return httptest.NewServer(mux), &lastBody
}

func TestDB_GetCreateUpdateDelete(t *testing.T) {
	server, lastBody := dbMockServer(t)
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	orders := client.DB().Model("orders")

	raw, err := orders.Get(ctx, "o1")
	require.NoError(t, err)
	got, err := Decode[map[string]interface{}](raw)
	require.NoError(t, err)
	assert.Equal(t, "o1", got["_id"])
	assert.Equal(t, "orders", (*lastBody)["model"])

	raw, err = orders.Create(ctx, map[string]interface{}{"total": 9.99})
	require.NoError(t, err)
	created, err := Decode[map[string]interface{}](raw)
	require.NoError(t, err)
	assert.Equal(t, "o2", created["_id"])

	raw, err = orders.Update(ctx, "o2", map[string]interface{}{"total": 19.99})
	require.NoError(t, err)
	updated, err := Decode[map[string]interface{}](raw)
	require.NoError(t, err)
	assert.Equal(t, 19.99, updated["total"])

	require.NoError(t, orders.Delete(ctx, "o2"))
	assert.Equal(t, "o2", (*lastBody)["id"])
}

func TestDB_GetNotFound(t *testing.T) {
	server, _ := dbMockServer(t)
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	raw, err := client.DB().Model("orders").Get(context.Background(), "missing")
	assert.Nil(t, raw)
	assert.True(t, IsNotFound(err))
}

func TestDB_ListOptionalFieldsOmitted(t *testing.T) {
	server, lastBody := dbMockServer(t)
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	orders := client.DB().Model("orders")

	_, err = orders.List(ctx, nil)
	require.NoError(t, err)
	for _, field := range []string{"filter", "sort", "page", "limit"} {
		_, has := (*lastBody)[field]
		assert.False(t, has, "field %q must be omitted when unset", field)
	}

	_, err = orders.List(ctx, &ListOptions{Filter: "total > 10", Page: 2, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, "total > 10", (*lastBody)["filter"])
	assert.EqualValues(t, 2, (*lastBody)["page"])
	assert.EqualValues(t, 50, (*lastBody)["limit"])
	_, has := (*lastBody)["sort"]
	assert.False(t, has)
}
