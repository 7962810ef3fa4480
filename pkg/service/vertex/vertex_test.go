package vertex_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/service/vertex"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *vertex.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := vertex.New(context.Background(), "p", "us-central1", "engine-1",
		vertex.WithHTTPClient(srv.Client()),
		vertex.WithBaseURL(srv.URL),
	)
	gt.NoError(t, err).Required()
	return client
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts session ID from operation name", func(t *testing.T) {
		var gotPath, gotUserID string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			var body map[string]string
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&body)).Required()
			gotUserID = body["userId"]

			resp := map[string]string{
				"name": "projects/p/locations/us-central1/reasoningEngines/engine-1/sessions/777/operations/888",
			}
			gt.NoError(t, json.NewEncoder(w).Encode(resp)).Required()
		})

		sid, err := client.CreateSession(ctx, "u1")
		gt.NoError(t, err).Required()
		gt.Value(t, sid).Equal(types.SessionID("777"))
		gt.Value(t, gotUserID).Equal("u1")
		gt.Bool(t, strings.HasSuffix(gotPath, "/reasoningEngines/engine-1/sessions")).True()
	})

	t.Run("non-200 response fails", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := client.CreateSession(ctx, "u1")
		gt.Error(t, err)
	})
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("existing session validates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gt.Bool(t, strings.HasSuffix(r.URL.Path, "/sessions/777")).True()
			w.WriteHeader(http.StatusOK)
		})

		gt.NoError(t, client.GetSession(ctx, "u1", "777"))
	})

	t.Run("gone session maps to not-found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.GetSession(ctx, "u1", "777")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrSessionNotFound)).True()
	})

	t.Run("server error is not treated as not-found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.GetSession(ctx, "u1", "777")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrSessionNotFound)).False()
	})
}
