// Package dashboard holds the view controllers: they orchestrate facade
// calls, keep list state, and are the single place that distinguishes an
// unauthorized failure (forced logout + redirect) from a generic one
// (surfaced through the notify sink).
package dashboard

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/misexecutive/minda-corp/api"
	"github.com/misexecutive/minda-corp/gate"
	apperrors "github.com/misexecutive/minda-corp/internal/errors"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/session"
)

// NotifyFunc surfaces an outcome to the user. Severity is "success" or
// "error". The sink displays and auto-dismisses; no further contract.
type NotifyFunc func(message, severity string)

// Navigator replaces the current view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

var errRequestInFlight = errors.New("an identical request is already in flight")

// controller is the shared plumbing for both dashboards.
type controller struct {
	api      *api.Client
	sessions *session.Manager
	notify   NotifyFunc
	nav      Navigator
}

func newController(client *api.Client, sessions *session.Manager, notify NotifyFunc, nav Navigator) controller {
	if notify == nil {
		notify = func(string, string) {}
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return controller{api: client, sessions: sessions, notify: notify, nav: nav}
}

func (c *controller) token() string {
	if s := c.sessions.Current(); s != nil {
		return s.Token
	}
	return ""
}

// fail routes a facade failure: an unauthorized signal forces logout and a
// redirect to login; everything else is reported and left to the user.
// Returns true when the session was torn down.
func (c *controller) fail(err error) bool {
	if apperrors.IsUnauthorized(err) {
		c.notify("Session expired. Please log in again.", "error")
		_ = c.sessions.Logout()
		c.nav.Navigate(gate.PathLogin)
		return true
	}
	c.notify(err.Error(), "error")
	return false
}

// projectFilters is the client-side filtering state over a project list.
type projectFilters struct {
	Search   string
	Assignee string
	Category string
	GYR      string
}

func (f projectFilters) match(p models.Project) bool {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search != "" {
		haystack := []string{
			p.ProjectID, p.Model, p.Customer, p.Category,
			p.AssigneeUsername, p.LegacyType, p.StatusLatest,
		}
		found := false
		for _, value := range haystack {
			if strings.Contains(strings.ToLower(value), search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Assignee != "" {
		assignee := strings.TrimSpace(p.AssigneeUserID)
		if assignee == "" {
			assignee = strings.TrimSpace(p.AssigneeUsername)
		}
		if assignee != f.Assignee {
			return false
		}
	}

	if f.Category != "" && strings.ToUpper(strings.TrimSpace(p.Category)) != f.Category {
		return false
	}

	if f.GYR != "" && models.NormalizeGYR(p.GYRStatus) != f.GYR {
		return false
	}

	return true
}
