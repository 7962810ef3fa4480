package vertex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/utils/safe"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Client talks to the Vertex AI Agent Engine session API. Sessions are
// opaque to this service: it only creates handles and checks that cached
// ones are still alive.
type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
	location   string
	appName    string
}

var _ interfaces.SessionBackend = &Client{}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the authenticated HTTP client (testing)
func WithHTTPClient(hc *http.Client) Option {
	return func(x *Client) {
		x.httpClient = hc
	}
}

// WithBaseURL overrides the API endpoint (testing)
func WithBaseURL(u string) Option {
	return func(x *Client) {
		x.baseURL = strings.TrimSuffix(u, "/")
	}
}

// New creates a Client with application-default credentials. appName is
// the reasoning engine resource ID that owns the sessions.
func New(ctx context.Context, projectID, location, appName string, opts ...Option) (*Client, error) {
	x := &Client{
		baseURL:   fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1beta1", location),
		projectID: projectID,
		location:  location,
		appName:   appName,
	}
	for _, opt := range opts {
		opt(x)
	}

	if x.httpClient == nil {
		hc, _, err := htransport.NewClient(ctx, option.WithScopes(cloudPlatformScope))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create authenticated HTTP client",
				goerr.V("project_id", projectID),
			)
		}
		x.httpClient = hc
	}

	return x, nil
}

func (x *Client) enginePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", x.projectID, x.location, x.appName)
}

// CreateSession allocates a new backend session for the user
func (x *Client) CreateSession(ctx context.Context, uid types.UserID) (types.SessionID, error) {
	body, err := json.Marshal(map[string]string{"userId": uid.String()})
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode create session request")
	}

	url := fmt.Sprintf("%s/%s/sessions", x.baseURL, x.enginePath())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build create session request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "session backend unreachable", goerr.V("user_id", uid))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("session backend rejected create request",
			goerr.V("user_id", uid),
			goerr.V("status", resp.StatusCode),
		)
	}

	// Creation returns a long-running operation named
	// .../sessions/{id}/operations/{op}; the session ID is embedded in the
	// resource name either way.
	var created struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", goerr.Wrap(err, "failed to decode create session response")
	}

	sid := sessionIDFromName(created.Name)
	if sid == "" {
		return "", goerr.New("create session response carries no session ID",
			goerr.V("name", created.Name),
		)
	}

	return sid, nil
}

// GetSession validates that the handle still exists on the backend
func (x *Client) GetSession(ctx context.Context, uid types.UserID, sid types.SessionID) error {
	url := fmt.Sprintf("%s/%s/sessions/%s", x.baseURL, x.enginePath(), sid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build get session request")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "session backend unreachable", goerr.V("session_id", sid))
	}
	defer safe.Close(ctx, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return goerr.Wrap(model.ErrSessionNotFound, "cached session is gone",
			goerr.V("user_id", uid),
			goerr.V("session_id", sid),
		)
	default:
		return goerr.New("unexpected session backend response",
			goerr.V("session_id", sid),
			goerr.V("status", resp.StatusCode),
		)
	}
}

// sessionIDFromName extracts the session ID from a resource or operation
// name such as "projects/p/locations/l/reasoningEngines/e/sessions/123" or
// ".../sessions/123/operations/456".
func sessionIDFromName(name string) types.SessionID {
	parts := strings.Split(name, "/")
	for i, part := range parts {
		if part == "sessions" && i+1 < len(parts) {
			return types.SessionID(parts[i+1])
		}
	}
	return ""
}
