package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/misexecutive/minda-corp/api"
	apperrors "github.com/misexecutive/minda-corp/internal/errors"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/session"
)

// UserController drives the project-owner view: the caller's own projects,
// self-assigned project creation, and status updates.
type UserController struct {
	controller

	mu       sync.Mutex
	projects []models.Project
	updates  []models.ProjectUpdate
	selected string
	filters  projectFilters

	loadingProjects bool
	creatingProject bool
	addingUpdate    bool
}

func NewUserController(client *api.Client, sessions *session.Manager, notify NotifyFunc, nav Navigator) *UserController {
	return &UserController{controller: newController(client, sessions, notify, nav)}
}

func (u *UserController) LoadProjects(ctx context.Context) {
	u.mu.Lock()
	u.loadingProjects = true
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.loadingProjects = false
		u.mu.Unlock()
	}()

	projects, err := u.api.MyProjects(ctx, u.token())
	if err != nil {
		u.fail(err)
		return
	}

	u.mu.Lock()
	u.projects = projects
	u.mu.Unlock()
}

// CreateProject validates the form (the endpoint self-assigns the caller, so
// no team lead is required) and reloads the list on success.
func (u *UserController) CreateProject(ctx context.Context, form models.ProjectForm) error {
	if err := form.Validate(false); err != nil {
		u.notify(err.Error(), "error")
		return err
	}

	u.mu.Lock()
	if u.creatingProject {
		u.mu.Unlock()
		return errRequestInFlight
	}
	u.creatingProject = true
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.creatingProject = false
		u.mu.Unlock()
	}()

	if _, err := u.api.CreateProject(ctx, u.token(), form.Payload(false)); err != nil {
		u.fail(err)
		return err
	}

	u.notify("Project created.", "success")
	u.LoadProjects(ctx)
	return nil
}

// OpenUpdates selects one of the caller's projects and loads its history.
func (u *UserController) OpenUpdates(ctx context.Context, projectID string) {
	u.mu.Lock()
	u.selected = projectID
	u.updates = nil
	u.mu.Unlock()

	updates, err := u.api.ProjectUpdates(ctx, u.token(), projectID)
	if err != nil {
		u.fail(err)
		return
	}

	u.mu.Lock()
	u.updates = updates
	u.mu.Unlock()
}

// AddUpdate appends a remark to the selected project.
func (u *UserController) AddUpdate(ctx context.Context, remark string) error {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		err := &apperrors.ValidationError{Field: "remark", Message: "Remark is required."}
		u.notify(err.Message, "error")
		return err
	}

	u.mu.Lock()
	projectID := u.selected
	if projectID == "" {
		u.mu.Unlock()
		return nil
	}
	if u.addingUpdate {
		u.mu.Unlock()
		return errRequestInFlight
	}
	u.addingUpdate = true
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.addingUpdate = false
		u.mu.Unlock()
	}()

	updates, err := u.api.AddProjectUpdate(ctx, u.token(), projectID, remark)
	if err != nil {
		u.fail(err)
		return err
	}

	u.mu.Lock()
	u.updates = updates
	for i := range u.projects {
		if u.projects[i].ProjectID == projectID {
			u.projects[i].StatusLatest = remark
		}
	}
	u.mu.Unlock()

	u.notify("Update added.", "success")
	return nil
}

// SetFilters replaces the filtering state. The owner view has no assignee
// filter; every listed project already belongs to the caller.
func (u *UserController) SetFilters(search, category, gyr string) {
	u.mu.Lock()
	u.filters = projectFilters{
		Search:   search,
		Category: strings.ToUpper(strings.TrimSpace(category)),
		GYR:      models.NormalizeGYR(gyr),
	}
	u.mu.Unlock()
}

func (u *UserController) Projects() []models.Project {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]models.Project(nil), u.projects...)
}

func (u *UserController) FilteredProjects() []models.Project {
	u.mu.Lock()
	defer u.mu.Unlock()
	filtered := make([]models.Project, 0, len(u.projects))
	for _, p := range u.projects {
		if u.filters.match(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (u *UserController) Updates() []models.ProjectUpdate {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]models.ProjectUpdate(nil), u.updates...)
}
