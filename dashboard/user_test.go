package dashboard_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misexecutive/minda-corp/api"
	"github.com/misexecutive/minda-corp/dashboard"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/session"
	"github.com/misexecutive/minda-corp/transport"
)

func validUserForm() models.ProjectForm {
	return models.ProjectForm{
		LegacyType:            "Legacy",
		Customer:              "Acme Motors",
		Model:                 "EcoDrive",
		ProductDescription:    "Smart key module",
		Category:              "A",
		MajorMinor:            "MA",
		EffortDays:            "45",
		Platform:              "X200",
		SOPDate:               "2026-03-01",
		VolumeLacs:            "1.5",
		BusinessPotentialLacs: "12",
		GYRStatus:             "G",
	}
}

func newUserFixture(t *testing.T, routes map[string]string) (*dashboard.UserController, *recorder) {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callback := r.URL.Query().Get("callback")
		body, ok := routes[r.URL.Query().Get("route")]
		if !ok {
			body = `{"ok":false,"message":"Unknown route"}`
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = fmt.Fprintf(w, "%s(%s);", callback, body)
	}))
	t.Cleanup(ts.Close)

	client := api.New(transport.New(ts.URL))
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&session.Session{
		Token:    "tok-user",
		Role:     session.RoleUser,
		UserID:   "u-1",
		Username: "ravi",
	}))

	sessions, err := session.NewManager(client, store)
	require.NoError(t, err)

	rec := &recorder{}
	return dashboard.NewUserController(client, sessions, rec.notify, dashboard.NavigatorFunc(rec.navigate)), rec
}

func TestUserController_LoadProjects(t *testing.T) {
	ctrl, _ := newUserFixture(t, map[string]string{
		api.RouteGetMyProjects: `{"ok":true,"projects":[
			{"projectId":"P-1","model":"EcoDrive","assigneeUserId":"u-1","category":"A","gyrStatus":"G"},
			{"projectId":"P-2","model":"DoorPad","assigneeUserId":"u-1","category":"B","gyrStatus":"Y"}]}`,
	})

	ctrl.LoadProjects(context.Background())
	require.Len(t, ctrl.Projects(), 2)

	ctrl.SetFilters("", "a", "")
	filtered := ctrl.FilteredProjects()
	require.Len(t, filtered, 1)
	require.Equal(t, "P-1", filtered[0].ProjectID)
}

func TestUserController_CreateProjectSkipsTeamLead(t *testing.T) {
	ctrl, rec := newUserFixture(t, map[string]string{
		api.RouteCreateProject: `{"ok":true,"project":{"projectId":"P-9","model":"EcoDrive"}}`,
		api.RouteGetMyProjects: `{"ok":true,"projects":[{"projectId":"P-9","model":"EcoDrive"}]}`,
	})

	form := validUserForm()
	form.AssigneeUserID = ""

	require.NoError(t, ctrl.CreateProject(context.Background(), form))
	require.Equal(t, "Project created.", rec.lastNotification(t).Message)
	require.Len(t, ctrl.Projects(), 1)
}

func TestUserController_CreateProjectValidates(t *testing.T) {
	ctrl, rec := newUserFixture(t, nil)

	form := validUserForm()
	form.Customer = ""

	err := ctrl.CreateProject(context.Background(), form)
	require.Error(t, err)
	require.Contains(t, rec.lastNotification(t).Message, "Customer is required.")
}
