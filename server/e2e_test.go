package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misexecutive/minda-corp/api"
	"github.com/misexecutive/minda-corp/dashboard"
	"github.com/misexecutive/minda-corp/gate"
	"github.com/misexecutive/minda-corp/internal/config"
	apperrors "github.com/misexecutive/minda-corp/internal/errors"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/server"
	"github.com/misexecutive/minda-corp/session"
	"github.com/misexecutive/minda-corp/transport"
)

const seedYAML = `admin:
  username: asha
  password: admin-secret
users:
  - username: ravi
    password: ravi-secret
  - username: meera
    password: meera-secret
    active: false
projects:
  - model: EcoDrive
    productDescription: Smart key module
    customer: Acme Motors
    category: A
    legacyType: Legacy
    majorMinor: MA
    effortDays: "45"
    platform: X200
    sopDate: "2026-03-01"
    volumeLacs: "1.5"
    businessPotentialLacs: "12"
    gyrStatus: GREEN
    assignee: ravi
`

// startStack boots a seeded backend and returns a facade client against it.
func startStack(t *testing.T) *api.Client {
	t.Helper()

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o600))

	t.Setenv("ENV", "TEST")
	t.Setenv("SEED_FILE", seedPath)
	t.Setenv("TOKEN_SECRET", "e2e-secret")

	handler, err := server.New(config.New())
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return api.New(transport.New(ts.URL + "/api"))
}

func newManager(t *testing.T, client *api.Client) *session.Manager {
	t.Helper()
	manager, err := session.NewManager(client, session.NewFileStore(filepath.Join(t.TempDir(), "session.json")))
	require.NoError(t, err)
	return manager
}

func TestEndToEnd_AdminWorkflow(t *testing.T) {
	client := startStack(t)
	ctx := context.Background()

	manager := newManager(t, client)
	s, err := manager.Login(ctx, "asha", "admin-secret")
	require.NoError(t, err)
	require.Equal(t, session.RoleAdmin, s.Role)

	home, _ := gate.New().ResolveFinal(gate.PathRoot, s)
	require.Equal(t, gate.PathAdminHome, home)

	rec := &e2eRecorder{}
	admin := dashboard.NewAdminController(client, manager, rec.notify, nil)
	admin.LoadAll(ctx)

	users := admin.Users()
	require.Len(t, users, 3)
	require.Len(t, admin.ActiveUsers(), 2)

	projects := admin.Projects()
	require.Len(t, projects, 1)
	require.Equal(t, "EcoDrive", projects[0].Model)
	require.Equal(t, "ravi", projects[0].AssigneeUsername)
	require.Equal(t, "G", models.NormalizeGYR(projects[0].GYRStatus))

	var raviID string
	for _, u := range users {
		if u.Username == "ravi" {
			raviID = u.UserID
		}
	}
	require.NotEmpty(t, raviID)

	t.Run("admin creates a user", func(t *testing.T) {
		require.NoError(t, admin.CreateUser(ctx, "zara", "zara-secret", true))
		require.Len(t, admin.Users(), 4)
	})

	t.Run("admin creates a project for a team lead", func(t *testing.T) {
		form := e2eForm()
		form.Model = "DoorPad"
		form.AssigneeUserID = raviID

		require.NoError(t, admin.CreateProject(ctx, form))

		projects := admin.Projects()
		require.Len(t, projects, 2)
		for _, p := range projects {
			require.Equal(t, raviID, p.AssigneeUserID)
		}
	})

	t.Run("update history is newest first and mirrored", func(t *testing.T) {
		projectID := admin.Projects()[0].ProjectID
		admin.OpenUpdates(ctx, projectID)
		require.NoError(t, admin.AddUpdate(ctx, "Kickoff"))
		require.NoError(t, admin.AddUpdate(ctx, "Tooling done"))

		updates := admin.Updates()
		require.Len(t, updates, 2)
		require.Equal(t, "Tooling done", updates[0].Remark)
		require.Equal(t, "asha", updates[0].AssigneeUsername)

		for _, p := range admin.Projects() {
			if p.ProjectID == projectID {
				require.Equal(t, "Tooling done", p.StatusLatest)
			}
		}
	})
}

func TestEndToEnd_UserWorkflow(t *testing.T) {
	client := startStack(t)
	ctx := context.Background()

	manager := newManager(t, client)
	s, err := manager.Login(ctx, "ravi", "ravi-secret")
	require.NoError(t, err)
	require.Equal(t, session.RoleUser, s.Role)

	t.Run("inactive accounts cannot log in", func(t *testing.T) {
		other := newManager(t, client)
		_, err := other.Login(ctx, "meera", "meera-secret")
		require.Error(t, err)
		require.Contains(t, err.Error(), "Account is inactive.")
		require.False(t, apperrors.IsUnauthorized(err))
	})

	t.Run("user sees only their own projects", func(t *testing.T) {
		rec := &e2eRecorder{}
		ctrl := dashboard.NewUserController(client, manager, rec.notify, nil)
		ctrl.LoadProjects(ctx)

		projects := ctrl.Projects()
		require.Len(t, projects, 1)
		require.Equal(t, "EcoDrive", projects[0].Model)
	})

	t.Run("admin-only routes refuse the user token", func(t *testing.T) {
		_, err := client.AllProjects(ctx, s.Token)
		require.Error(t, err)
		require.True(t, apperrors.IsUnauthorized(err))

		_, err = client.ListUsers(ctx, s.Token)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Unauthorized: admin access required")
	})

	t.Run("stale token forces logout through the controller", func(t *testing.T) {
		staleStore := session.NewFileStore(filepath.Join(t.TempDir(), "stale.json"))
		require.NoError(t, staleStore.Save(&session.Session{
			Token:    "not-a-real-token",
			Role:     session.RoleAdmin,
			UserID:   "x",
			Username: "x",
		}))
		stale, err := session.NewManager(client, staleStore)
		require.NoError(t, err)

		rec := &e2eRecorder{}
		ctrl := dashboard.NewAdminController(client, stale, rec.notify, dashboard.NavigatorFunc(rec.navigate))
		ctrl.LoadUsers(ctx)

		require.Nil(t, stale.Current())
		require.Equal(t, []string{gate.PathLogin}, rec.navigations)
	})
}

func TestEndToEnd_WireShape(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o600))
	t.Setenv("ENV", "TEST")
	t.Setenv("SEED_FILE", seedPath)

	handler, err := server.New(config.New())
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	t.Run("responses are callback invocations", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api?route=nope&callback=my_cb_1")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, strings.HasPrefix(string(body), "my_cb_1("))
		require.True(t, strings.HasSuffix(string(body), ");"))
		require.Contains(t, resp.Header.Get("Content-Type"), "application/javascript")
	})

	t.Run("health endpoint", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"ok":true}`, string(body))
	})
}

func TestEndToEnd_BootstrapAdmin(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("SEED_FILE", "")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "bootstrap-pw")

	handler, err := server.New(config.New())
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := api.New(transport.New(ts.URL + "/api"))
	resp, err := client.Login(context.Background(), "admin", "bootstrap-pw")
	require.NoError(t, err)
	require.Equal(t, "ADMIN", resp.Role)
}

func e2eForm() models.ProjectForm {
	return models.ProjectForm{
		LegacyType:            "Key less",
		Customer:              "Acme Motors",
		Model:                 "DoorPad",
		ProductDescription:    "Touch entry pad",
		Category:              "B",
		MajorMinor:            "MI",
		EffortDays:            "30",
		Platform:              "X300",
		SOPDate:               "2026-06-01",
		VolumeLacs:            "2",
		BusinessPotentialLacs: "8",
		GYRStatus:             "Y",
	}
}

type e2eRecorder struct {
	notifications []string
	navigations   []string
}

func (r *e2eRecorder) notify(message, _ string) {
	r.notifications = append(r.notifications, message)
}

func (r *e2eRecorder) navigate(path string) {
	r.navigations = append(r.navigations, path)
}
