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

// AdminController drives the admin view: every account and every project,
// account creation, project creation with explicit assignee, and the
// append-only update history of any project.
type AdminController struct {
	controller

	mu       sync.Mutex
	users    []models.User
	projects []models.Project
	updates  []models.ProjectUpdate
	selected string
	filters  projectFilters

	loadingUsers    bool
	loadingProjects bool
	creatingUser    bool
	creatingProject bool
	addingUpdate    bool
}

func NewAdminController(client *api.Client, sessions *session.Manager, notify NotifyFunc, nav Navigator) *AdminController {
	return &AdminController{controller: newController(client, sessions, notify, nav)}
}

// LoadAll loads accounts and projects concurrently. The two completions are
// independent and each applies its own state without clobbering the other.
func (a *AdminController) LoadAll(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.LoadUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		a.LoadProjects(ctx)
	}()
	wg.Wait()
}

func (a *AdminController) LoadUsers(ctx context.Context) {
	a.mu.Lock()
	a.loadingUsers = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.loadingUsers = false
		a.mu.Unlock()
	}()

	users, err := a.api.ListUsers(ctx, a.token())
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	a.users = users
	a.mu.Unlock()
}

func (a *AdminController) LoadProjects(ctx context.Context) {
	a.mu.Lock()
	a.loadingProjects = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.loadingProjects = false
		a.mu.Unlock()
	}()

	projects, err := a.api.AllProjects(ctx, a.token())
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	a.projects = projects
	a.mu.Unlock()
}

// CreateUser provisions an account and reloads the list. A second identical
// call while one is outstanding is refused to avoid duplicate remote side
// effects.
func (a *AdminController) CreateUser(ctx context.Context, username, password string, active bool) error {
	if strings.TrimSpace(username) == "" || password == "" {
		err := &apperrors.ValidationError{Field: "username", Message: "Username and password are required."}
		a.notify(err.Message, "error")
		return err
	}

	a.mu.Lock()
	if a.creatingUser {
		a.mu.Unlock()
		return errRequestInFlight
	}
	a.creatingUser = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.creatingUser = false
		a.mu.Unlock()
	}()

	if _, err := a.api.CreateUser(ctx, a.token(), strings.TrimSpace(username), password, active); err != nil {
		a.fail(err)
		return err
	}

	a.notify("User created.", "success")
	a.LoadUsers(ctx)
	return nil
}

// CreateProject validates the form (team lead required on the admin view),
// creates the project, and reloads the list.
func (a *AdminController) CreateProject(ctx context.Context, form models.ProjectForm) error {
	if err := form.Validate(true); err != nil {
		a.notify(err.Error(), "error")
		return err
	}

	a.mu.Lock()
	if a.creatingProject {
		a.mu.Unlock()
		return errRequestInFlight
	}
	a.creatingProject = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.creatingProject = false
		a.mu.Unlock()
	}()

	if _, err := a.api.CreateProject(ctx, a.token(), form.Payload(true)); err != nil {
		a.fail(err)
		return err
	}

	a.notify("Project created.", "success")
	a.LoadProjects(ctx)
	return nil
}

// OpenUpdates selects a project and loads its update history.
func (a *AdminController) OpenUpdates(ctx context.Context, projectID string) {
	a.mu.Lock()
	a.selected = projectID
	a.updates = nil
	a.mu.Unlock()

	updates, err := a.api.ProjectUpdates(ctx, a.token(), projectID)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	a.updates = updates
	a.mu.Unlock()
}

// AddUpdate appends a remark to the selected project. The refreshed history
// replaces the local one and the project row mirrors the new latest status.
func (a *AdminController) AddUpdate(ctx context.Context, remark string) error {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		err := &apperrors.ValidationError{Field: "remark", Message: "Remark is required."}
		a.notify(err.Message, "error")
		return err
	}

	a.mu.Lock()
	projectID := a.selected
	if projectID == "" {
		a.mu.Unlock()
		return nil
	}
	if a.addingUpdate {
		a.mu.Unlock()
		return errRequestInFlight
	}
	a.addingUpdate = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.addingUpdate = false
		a.mu.Unlock()
	}()

	updates, err := a.api.AddProjectUpdate(ctx, a.token(), projectID, remark)
	if err != nil {
		a.fail(err)
		return err
	}

	a.mu.Lock()
	a.updates = updates
	for i := range a.projects {
		if a.projects[i].ProjectID == projectID {
			a.projects[i].StatusLatest = remark
		}
	}
	a.mu.Unlock()

	a.notify("Update added.", "success")
	return nil
}

// SetFilters replaces the project filtering state.
func (a *AdminController) SetFilters(search, assignee, category, gyr string) {
	a.mu.Lock()
	a.filters = projectFilters{
		Search:   search,
		Assignee: assignee,
		Category: strings.ToUpper(strings.TrimSpace(category)),
		GYR:      models.NormalizeGYR(gyr),
	}
	a.mu.Unlock()
}

// Users returns a copy of the loaded accounts.
func (a *AdminController) Users() []models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.User(nil), a.users...)
}

// ActiveUsers returns the accounts usable as project assignees.
func (a *AdminController) ActiveUsers() []models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	active := make([]models.User, 0, len(a.users))
	for _, u := range a.users {
		if u.Active.Bool() {
			active = append(active, u)
		}
	}
	return active
}

// Projects returns a copy of the loaded projects.
func (a *AdminController) Projects() []models.Project {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Project(nil), a.projects...)
}

// FilteredProjects applies the current filters.
func (a *AdminController) FilteredProjects() []models.Project {
	a.mu.Lock()
	defer a.mu.Unlock()
	filtered := make([]models.Project, 0, len(a.projects))
	for _, p := range a.projects {
		if a.filters.match(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// AssigneeOption is one entry for the assignee filter picker.
type AssigneeOption struct {
	Value string
	Label string
}

// AssigneeOptions derives the distinct assignees present in the project list.
func (a *AdminController) AssigneeOptions() []AssigneeOption {
	a.mu.Lock()
	defer a.mu.Unlock()

	seen := make(map[string]bool)
	options := make([]AssigneeOption, 0)
	for _, p := range a.projects {
		value := strings.TrimSpace(p.AssigneeUserID)
		if value == "" {
			value = strings.TrimSpace(p.AssigneeUsername)
		}
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		label := strings.TrimSpace(p.AssigneeUsername)
		if label == "" {
			label = value
		}
		options = append(options, AssigneeOption{Value: value, Label: label})
	}
	return options
}

// Updates returns a copy of the selected project's update history.
func (a *AdminController) Updates() []models.ProjectUpdate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.ProjectUpdate(nil), a.updates...)
}
