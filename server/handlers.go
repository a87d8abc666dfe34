package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/misexecutive/minda-corp/api"
	apperrors "github.com/misexecutive/minda-corp/internal/errors"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/session"
)

// routeError carries the user-facing failure message for a route. Messages
// containing "Unauthorized" make compliant clients drop their session, so
// only credential problems use that prefix.
type routeError struct {
	message string
}

func (e *routeError) Error() string {
	return e.message
}

func failRoute(message string) error {
	return &routeError{message: message}
}

// APIHandler dispatches on the `route` query parameter and always answers
// through the callback wrapper, HTTP 200 either way: transport success is
// decoupled from application success.
func (s *Server) APIHandler() http.HandlerFunc {
	handlers := map[string]func(json.RawMessage) (any, error){
		api.RouteLogin:             s.handleLogin,
		api.RouteCreateUser:        s.handleCreateUser,
		api.RouteListUsers:         s.handleListUsers,
		api.RouteCreateProject:     s.handleCreateProject,
		api.RouteGetMyProjects:     s.handleGetMyProjects,
		api.RouteGetAllProjects:    s.handleGetAllProjects,
		api.RouteAddProjectUpdate:  s.handleAddProjectUpdate,
		api.RouteGetProjectUpdates: s.handleGetProjectUpdates,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		route := query.Get("route")
		callback := query.Get("callback")
		payload := json.RawMessage(query.Get("payload"))
		if len(payload) == 0 {
			payload = json.RawMessage("{}")
		}

		handler, ok := handlers[route]
		if !ok {
			writeJSONP(w, callback, envelope{OK: false, Message: "Unknown route: " + route})
			return
		}

		resp, err := handler(payload)
		if err != nil {
			var re *routeError
			if apperrors.As(err, &re) {
				writeJSONP(w, callback, envelope{OK: false, Message: re.message})
				return
			}
			log.Error().Err(err).Str("route", route).Msg("route handler failed")
			writeJSONP(w, callback, envelope{OK: false, Message: "Internal server error"})
			return
		}
		writeJSONP(w, callback, resp)
	}
}

// requireAuth resolves a token to a live, active account.
func (s *Server) requireAuth(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, failRoute("Unauthorized: missing token")
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenExpired) {
			return nil, failRoute("Unauthorized: token expired")
		}
		return nil, failRoute("Unauthorized: invalid token")
	}

	account, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, failRoute("Unauthorized: unknown account")
	}
	if !account.Active.Bool() {
		return nil, failRoute("Unauthorized: account inactive")
	}

	return claims, nil
}

func (s *Server) requireAdmin(token string) (*Claims, error) {
	claims, err := s.requireAuth(token)
	if err != nil {
		return nil, err
	}
	switch claims.Role {
	case session.RoleAdmin:
		return claims, nil
	case session.RoleUser:
		return nil, failRoute("Unauthorized: admin access required")
	}
	return nil, failRoute("Unauthorized: admin access required")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	envelope
	Token    string       `json:"token"`
	Role     session.Role `json:"role"`
	UserID   string       `json:"userId"`
	Username string       `json:"username"`
}

func (s *Server) handleLogin(payload json.RawMessage) (any, error) {
	var req loginRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, failRoute("Username and password are required.")
	}

	account, err := s.users.GetByUsername(req.Username)
	if err != nil {
		return nil, failRoute("Invalid username or password.")
	}
	if !checkPassword(req.Password, account.PasswordHash) {
		return nil, failRoute("Invalid username or password.")
	}
	if !account.Active.Bool() {
		return nil, failRoute("Account is inactive.")
	}

	token, err := s.tokens.Issue(account.UserID, account.Username, account.Role)
	if err != nil {
		return nil, err
	}
	s.users.TouchLastLogin(account.UserID, time.Now())

	return loginResponse{
		envelope: envelope{OK: true},
		Token:    token,
		Role:     account.Role,
		UserID:   account.UserID,
		Username: account.Username,
	}, nil
}

type createUserRequest struct {
	AdminToken string          `json:"adminToken"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	Active     models.FlexBool `json:"active"`
}

type userResponse struct {
	envelope
	User models.User `json:"user"`
}

func (s *Server) handleCreateUser(payload json.RawMessage) (any, error) {
	var req createUserRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	if _, err := s.requireAdmin(req.AdminToken); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, failRoute("Username and password are required.")
	}

	account, err := s.users.Create(req.Username, req.Password, req.Active.Bool(), session.RoleUser)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserExists) {
			return nil, failRoute("Username already taken.")
		}
		return nil, err
	}

	return userResponse{envelope: envelope{OK: true}, User: account.User}, nil
}

type tokenRequest struct {
	Token string `json:"token"`
}

type usersResponse struct {
	envelope
	Users []models.User `json:"users"`
}

func (s *Server) handleListUsers(payload json.RawMessage) (any, error) {
	var req tokenRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	if _, err := s.requireAdmin(req.Token); err != nil {
		return nil, err
	}
	return usersResponse{envelope: envelope{OK: true}, Users: s.users.List()}, nil
}

type createProjectRequest struct {
	Token          string `json:"token"`
	AssigneeUserID string `json:"assigneeUserId"`
}

type projectResponse struct {
	envelope
	Project models.Project `json:"project"`
}

func (s *Server) handleCreateProject(payload json.RawMessage) (any, error) {
	var req createProjectRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	claims, err := s.requireAuth(req.Token)
	if err != nil {
		return nil, err
	}

	// The project fields ride in the same payload; the Project decoder folds
	// both historical naming schemes into the canonical one.
	var project models.Project
	if err := json.Unmarshal(payload, &project); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	if strings.TrimSpace(project.Model) == "" {
		return nil, failRoute("Model is required.")
	}

	assigneeID := claims.UserID
	assigneeName := claims.Username
	if req.AssigneeUserID != "" && req.AssigneeUserID != claims.UserID {
		if claims.Role != session.RoleAdmin {
			return nil, failRoute("Unauthorized: admin access required")
		}
		assignee, err := s.users.GetByID(req.AssigneeUserID)
		if err != nil || !assignee.Active.Bool() {
			return nil, failRoute("Team lead must be an active user.")
		}
		assigneeID = assignee.UserID
		assigneeName = assignee.Username
	}

	project.ProjectID = "P-" + strings.ToUpper(uuid.NewString()[:8])
	project.AssigneeUserID = assigneeID
	project.AssigneeUsername = assigneeName
	project.StatusLatest = ""
	project.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	s.projects.Create(project)

	return projectResponse{envelope: envelope{OK: true}, Project: project}, nil
}

type projectsResponse struct {
	envelope
	Projects []models.Project `json:"projects"`
}

func (s *Server) handleGetMyProjects(payload json.RawMessage) (any, error) {
	var req tokenRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	claims, err := s.requireAuth(req.Token)
	if err != nil {
		return nil, err
	}
	return projectsResponse{envelope: envelope{OK: true}, Projects: s.projects.ListByAssignee(claims.UserID)}, nil
}

func (s *Server) handleGetAllProjects(payload json.RawMessage) (any, error) {
	var req tokenRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	if _, err := s.requireAdmin(req.Token); err != nil {
		return nil, err
	}
	return projectsResponse{envelope: envelope{OK: true}, Projects: s.projects.ListAll()}, nil
}

type updateRequest struct {
	Token     string `json:"token"`
	ProjectID string `json:"projectId"`
	Remark    string `json:"remark"`
}

type updatesResponse struct {
	envelope
	Updates []models.ProjectUpdate `json:"updates"`
}

// visibleProject loads a project the caller may touch: its owner or an admin.
func (s *Server) visibleProject(claims *Claims, projectID string) (*models.Project, error) {
	project, err := s.projects.Get(projectID)
	if err != nil {
		return nil, failRoute("Project not found.")
	}
	if claims.Role != session.RoleAdmin && project.AssigneeUserID != claims.UserID {
		return nil, failRoute("Not your project.")
	}
	return project, nil
}

func (s *Server) handleAddProjectUpdate(payload json.RawMessage) (any, error) {
	var req updateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	claims, err := s.requireAuth(req.Token)
	if err != nil {
		return nil, err
	}
	project, err := s.visibleProject(claims, req.ProjectID)
	if err != nil {
		return nil, err
	}

	remark := strings.TrimSpace(req.Remark)
	if remark == "" {
		return nil, failRoute("Remark is required.")
	}

	s.updates.Append(project.ProjectID, models.ProjectUpdate{
		UpdateID:         uuid.NewString(),
		Remark:           remark,
		AssigneeUsername: claims.Username,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	})
	s.projects.SetStatusLatest(project.ProjectID, remark)

	return updatesResponse{envelope: envelope{OK: true}, Updates: s.updates.List(project.ProjectID)}, nil
}

func (s *Server) handleGetProjectUpdates(payload json.RawMessage) (any, error) {
	var req updateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, failRoute("Invalid payload.")
	}
	claims, err := s.requireAuth(req.Token)
	if err != nil {
		return nil, err
	}
	project, err := s.visibleProject(claims, req.ProjectID)
	if err != nil {
		return nil, err
	}
	return updatesResponse{envelope: envelope{OK: true}, Updates: s.updates.List(project.ProjectID)}, nil
}
