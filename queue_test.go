package gridbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Submit(t *testing.T) {
	var gotBody map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/_api/rest/v1/queue", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(MessageInfo{
			MessageID:   "m1",
			QueueName:   gotBody["queueName"].(string),
			SubmittedAt: time.Now().UTC(),
			Status:      "pending",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	info, err := client.Queue().Submit(ctx, "send-email", map[string]string{"to": "bob@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "m1", info.MessageID)
	assert.Equal(t, "send-email", info.QueueName)
	assert.Equal(t, "pending", info.Status)
	_, hasDelay := gotBody["delay"]
	assert.False(t, hasDelay, "omitted delay must not appear in the body")

	_, err = client.Queue().Submit(ctx, "send-email", nil, &SubmitOptions{DelaySeconds: 30})
	require.NoError(t, err)
	assert.EqualValues(t, 30, gotBody["delay"])
}

func TestQueue_GetMessageStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/_api/rest/v1/queue/message", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("messageId") != "m1" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]interface{}{
					{"status": 404, "code": "message_not_found", "message": "no such message"},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(MessageInfo{MessageID: "m1", Status: "completed"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	info, err := client.Queue().GetMessageStatus(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "completed", info.Status)

	info, err = client.Queue().GetMessageStatus(ctx, "m2")
	assert.Nil(t, info)
	assert.True(t, IsNotFound(err))
}
