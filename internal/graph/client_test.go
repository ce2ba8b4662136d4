package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSendsTokenAsQueryParam(t *testing.T) {
	var gotToken, gotFields string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("access_token")
		gotFields = r.URL.Query().Get("fields")
		w.Write([]byte(`{"id":"123","name":"Test User"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	user, err := client.Me(context.Background(), "token-abc")
	require.NoError(t, err)

	assert.Equal(t, "token-abc", gotToken)
	assert.Equal(t, "id,name", gotFields)
	assert.Equal(t, "123", user.ID)
	assert.Equal(t, "Test User", user.Name)
}

func TestRequestErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Me(context.Background(), "bad-token")
	require.Error(t, err)

	var graphErr *Error
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, "Invalid OAuth access token.", graphErr.Message)
	assert.Equal(t, "OAuthException", graphErr.Type)
	assert.Equal(t, 190, graphErr.Code)
}

func TestRequestErrorEnvelopeOn200(t *testing.T) {
	// The platform sometimes returns an error body with a 200 status. The
	// envelope wins regardless of the status code.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"(#10) Permission denied","type":"OAuthException","code":10}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Me(context.Background(), "token")

	var graphErr *Error
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, 10, graphErr.Code)
}

func TestRequestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	err := client.Request(ctx, http.MethodGet, "/me", "token", nil, nil)
	require.Error(t, err)
}

func TestRequestNilOutIgnoresBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Request(context.Background(), http.MethodPost, "/123/likes", "token", nil, nil)
	require.NoError(t, err)
}
