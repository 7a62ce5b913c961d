package gridbase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorBody_ServerEntries(t *testing.T) {
	body := []byte(`{"errors":[
		{"code":"validation_error","message":"email is invalid","details":{"field":"email"}},
		{"code":"validation_error","message":"password too short"}
	]}`)

	list := parseErrorBody(http.StatusBadRequest, body)
	require.Len(t, list.Items, 2)
	assert.Equal(t, http.StatusBadRequest, list.Status)
	// Entries stay in server order, status fills in when missing.
	assert.Equal(t, "email is invalid", list.Items[0].Message)
	assert.Equal(t, http.StatusBadRequest, list.Items[0].Status)
	assert.Contains(t, list.Items[0].Details, "field")
	assert.Equal(t, "password too short", list.Items[1].Message)
}

func TestParseErrorBody_MalformedBody(t *testing.T) {
	list := parseErrorBody(http.StatusInternalServerError, []byte("<html>boom</html>"))
	require.Len(t, list.Items, 1)
	assert.Equal(t, codeServerError, list.Items[0].Code)
	assert.Equal(t, "<html>boom</html>", list.Items[0].Message)
}

func TestParseErrorBody_EmptyBody(t *testing.T) {
	list := parseErrorBody(http.StatusServiceUnavailable, nil)
	require.Len(t, list.Items, 1)
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), list.Items[0].Message)
}

func TestErrorList_First(t *testing.T) {
	list := &ErrorList{Items: []ErrorEntry{
		{Code: "first"},
		{Code: "second"},
	}}
	require.NotNil(t, list.First())
	assert.Equal(t, "first", list.First().Code)

	empty := &ErrorList{}
	assert.Nil(t, empty.First())
}

func TestErrorHelpers(t *testing.T) {
	notFound := &ErrorList{Status: http.StatusNotFound, Items: []ErrorEntry{{Status: 404, Code: "not_found", Message: "no such object"}}}
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsUnauthorized(notFound))

	unauthorized := &ErrorList{Status: http.StatusUnauthorized, Items: []ErrorEntry{{Status: 401, Code: "invalid_session"}}}
	assert.True(t, IsUnauthorized(unauthorized))

	network := newTransportError(codeNetworkError, "connection refused", errors.New("dial tcp: connection refused"))
	assert.True(t, IsNetworkError(network))
	assert.False(t, IsTimeout(network))

	timeout := newTransportError(codeTimeout, "deadline exceeded", context.DeadlineExceeded)
	assert.True(t, IsTimeout(timeout))
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("plain error")))
}

func TestAsErrorList(t *testing.T) {
	list := &ErrorList{Status: 400, Items: []ErrorEntry{{Code: "x"}}}

	got, ok := AsErrorList(list)
	require.True(t, ok)
	assert.Equal(t, list, got)

	_, ok = AsErrorList(ErrInvalidConfig)
	assert.False(t, ok)
}
