// Package api is the fixed catalog of remote operations. Each operation is a
// thin call into the transport bridge: the full payload travels as one
// JSON-encoded string under the `payload` parameter because the transport only
// carries flat string-keyed parameters.
package api

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	apperrors "github.com/misexecutive/minda-corp/internal/errors"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/transport"
)

// Route names understood by the remote endpoint.
const (
	RouteLogin             = "login"
	RouteCreateUser        = "createUser"
	RouteListUsers         = "listUsers"
	RouteCreateProject     = "createProject"
	RouteGetMyProjects     = "getMyProjects"
	RouteGetAllProjects    = "getAllProjects"
	RouteAddProjectUpdate  = "addProjectUpdate"
	RouteGetProjectUpdates = "getProjectUpdates"
)

// envelope is the response contract shared by every operation.
type envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Client struct {
	bridge *transport.Bridge
}

func New(bridge *transport.Bridge) *Client {
	return &Client{bridge: bridge}
}

// call sends one route invocation and enforces the ok contract: anything
// without ok == true fails with the server-supplied message.
func (c *Client) call(ctx context.Context, route string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "[Client.call] marshal payload")
	}

	raw, err := c.bridge.Call(ctx, transport.Params{
		"route":   route,
		"payload": string(body),
	})
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrap(err, "[Client.call] decode response")
	}
	if !env.OK {
		if env.Message == "" {
			env.Message = "Request failed"
		}
		return apperrors.NewRequestFailed(env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "[Client.call] decode response body")
		}
	}
	return nil
}

// LoginResponse carries the authenticated identity the session store keeps.
type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.call(ctx, RouteLogin, map[string]any{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser provisions a managed account. Requires an elevated token.
func (c *Client) CreateUser(ctx context.Context, adminToken, username, password string, active bool) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	err := c.call(ctx, RouteCreateUser, map[string]any{
		"adminToken": adminToken,
		"username":   username,
		"password":   password,
		"active":     active,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ListUsers returns every managed account. Requires an elevated token.
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := c.call(ctx, RouteListUsers, map[string]any{"token": token}, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// CreateProject creates a project from an already-built payload (see
// models.ProjectForm.Payload). The assignee field in the payload is only
// honored for elevated tokens.
func (c *Client) CreateProject(ctx context.Context, token string, payload map[string]any) (*models.Project, error) {
	body := map[string]any{"token": token}
	for key, value := range payload {
		body[key] = value
	}
	var out struct {
		Project models.Project `json:"project"`
	}
	if err := c.call(ctx, RouteCreateProject, body, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

// MyProjects lists the projects owned by the calling token.
func (c *Client) MyProjects(ctx context.Context, token string) ([]models.Project, error) {
	return c.projects(ctx, RouteGetMyProjects, token)
}

// AllProjects lists every project. Requires an elevated token.
func (c *Client) AllProjects(ctx context.Context, token string) ([]models.Project, error) {
	return c.projects(ctx, RouteGetAllProjects, token)
}

func (c *Client) projects(ctx context.Context, route, token string) ([]models.Project, error) {
	var out struct {
		Projects []models.Project `json:"projects"`
	}
	if err := c.call(ctx, route, map[string]any{"token": token}, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// AddProjectUpdate appends a status entry and returns the refreshed list.
func (c *Client) AddProjectUpdate(ctx context.Context, token, projectID, remark string) ([]models.ProjectUpdate, error) {
	var out struct {
		Updates []models.ProjectUpdate `json:"updates"`
	}
	err := c.call(ctx, RouteAddProjectUpdate, map[string]any{
		"token":     token,
		"projectId": projectID,
		"remark":    remark,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Updates, nil
}

// ProjectUpdates lists a project's append-only status history.
func (c *Client) ProjectUpdates(ctx context.Context, token, projectID string) ([]models.ProjectUpdate, error) {
	var out struct {
		Updates []models.ProjectUpdate `json:"updates"`
	}
	err := c.call(ctx, RouteGetProjectUpdates, map[string]any{
		"token":     token,
		"projectId": projectID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Updates, nil
}
