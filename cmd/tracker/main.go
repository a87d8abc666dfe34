// Command tracker is the terminal consumer of the tracker client library:
// it logs in against the configured endpoint, keeps the session on disk, and
// drives the same view controllers the dashboards use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/misexecutive/minda-corp/api"
	"github.com/misexecutive/minda-corp/dashboard"
	"github.com/misexecutive/minda-corp/gate"
	"github.com/misexecutive/minda-corp/internal/config"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/session"
	"github.com/misexecutive/minda-corp/transport"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	app, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	if err := app.dispatch(cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: tracker <command> [flags]

Commands:
  login        -u <username> -p <password>
  logout
  whoami
  users
  user-add     -u <username> -p <password> [-inactive]
  projects     [-search s] [-assignee id] [-category A|B|C] [-gyr G|Y|R]
  project-add  -model m -desc d -customer c -category A|B|C -type t -scale MA|MI
               -effort n -platform p -sop YYYY-MM-DD -volume n -potential n
               -gyr G|Y|R [-lead userId] [-image url]
  updates      -project <projectId>
  update-add   -project <projectId> -remark <text>

The endpoint comes from API_BASE_URL; the session lives in SESSION_FILE.`)
}

type app struct {
	sessions *session.Manager
	gate     *gate.Gate
	admin    *dashboard.AdminController
	user     *dashboard.UserController
}

func newApp() (*app, error) {
	cfg := config.New()
	bridge := transport.New(cfg.GetBaseEndpoint(), transport.WithTimeout(cfg.GetRequestTimeout()))
	client := api.New(bridge)

	sessions, err := session.NewManager(client, session.NewFileStore(cfg.GetSessionFile()))
	if err != nil {
		return nil, err
	}

	notify := dashboard.NotifyFunc(func(message, severity string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", severity, message)
	})
	nav := dashboard.NavigatorFunc(func(path string) {
		fmt.Fprintf(os.Stderr, "-> %s\n", path)
	})

	return &app{
		sessions: sessions,
		gate:     gate.New(),
		admin:    dashboard.NewAdminController(client, sessions, notify, nav),
		user:     dashboard.NewUserController(client, sessions, notify, nav),
	}, nil
}

func (a *app) dispatch(cmd string, args []string) error {
	ctx := context.Background()

	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.sessions.Logout()
	case "whoami":
		return a.whoami()
	case "users":
		return a.listUsers(ctx)
	case "user-add":
		return a.addUser(ctx, args)
	case "projects":
		return a.listProjects(ctx, args)
	case "project-add":
		return a.addProject(ctx, args)
	case "updates":
		return a.listUpdates(ctx, args)
	case "update-add":
		return a.addUpdate(ctx, args)
	}

	usage()
	return fmt.Errorf("unknown command %q", cmd)
}

// requireView resolves the command's view through the gate and refuses with
// the redirect target when the current session may not render it.
func (a *app) requireView(path string) error {
	decision := a.gate.Resolve(path, a.sessions.Current())
	if decision.Action == gate.ActionRender {
		return nil
	}
	return fmt.Errorf("not allowed here, go to %s", decision.To)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	_ = fs.Parse(args)

	s, err := a.sessions.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	home, _ := a.gate.ResolveFinal(gate.PathRoot, s)
	fmt.Printf("Logged in as %s (%s), home view %s\n", s.Username, s.Role, home)
	return nil
}

func (a *app) whoami() error {
	s := a.sessions.Current()
	if !s.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s (%s), user id %s\n", s.Username, s.Role, s.UserID)
	return nil
}

func (a *app) listUsers(ctx context.Context) error {
	if err := a.requireView(gate.PathAdminHome); err != nil {
		return err
	}
	a.admin.LoadUsers(ctx)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tACTIVE\tLAST LOGIN")
	for _, u := range a.admin.Users() {
		fmt.Fprintf(w, "%s\t%v\t%s\n", u.Username, u.Active.Bool(), orDash(u.LastLoginAt))
	}
	return w.Flush()
}

func (a *app) addUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	inactive := fs.Bool("inactive", false, "create the account disabled")
	_ = fs.Parse(args)

	if err := a.requireView(gate.PathAdminHome); err != nil {
		return err
	}
	return a.admin.CreateUser(ctx, *username, *password, !*inactive)
}

func (a *app) listProjects(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("projects", flag.ExitOnError)
	search := fs.String("search", "", "search term")
	assignee := fs.String("assignee", "", "assignee user id")
	category := fs.String("category", "", "category A/B/C")
	gyr := fs.String("gyr", "", "GYR status")
	_ = fs.Parse(args)

	var projects []models.Project
	switch gate.StateOf(a.sessions.Current()) {
	case gate.StateAuthenticatedAdmin:
		a.admin.LoadProjects(ctx)
		a.admin.SetFilters(*search, *assignee, *category, *gyr)
		projects = a.admin.FilteredProjects()
	case gate.StateAuthenticatedUser:
		a.user.LoadProjects(ctx)
		a.user.SetFilters(*search, *category, *gyr)
		projects = a.user.FilteredProjects()
	default:
		return fmt.Errorf("not allowed here, go to %s", gate.PathLogin)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tMODEL\tLEAD\tCUSTOMER\tCAT\tGYR\tSOP\tLATEST")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ProjectID, p.DisplayName(), orDash(p.AssigneeUsername), orDash(p.Customer),
			orDash(p.Category), orDash(models.NormalizeGYR(p.GYRStatus)), orDash(p.SOPDate),
			orDash(p.StatusLatest))
	}
	return w.Flush()
}

func (a *app) addProject(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("project-add", flag.ExitOnError)
	form := models.ProjectForm{}
	fs.StringVar(&form.Model, "model", "", "model name")
	fs.StringVar(&form.ProductDescription, "desc", "", "product description")
	fs.StringVar(&form.Customer, "customer", "", "customer name")
	fs.StringVar(&form.Category, "category", "", "category A/B/C")
	fs.StringVar(&form.LegacyType, "type", "", "Legacy or Key less")
	fs.StringVar(&form.MajorMinor, "scale", "", "MA or MI")
	fs.StringVar(&form.EffortDays, "effort", "", "effort days")
	fs.StringVar(&form.Platform, "platform", "", "platform")
	fs.StringVar(&form.SOPDate, "sop", "", "SOP date (YYYY-MM-DD)")
	fs.StringVar(&form.VolumeLacs, "volume", "", "volume (lacs)")
	fs.StringVar(&form.BusinessPotentialLacs, "potential", "", "business potential (lacs)")
	fs.StringVar(&form.GYRStatus, "gyr", "", "GYR status")
	fs.StringVar(&form.AssigneeUserID, "lead", "", "team lead user id (admin only)")
	fs.StringVar(&form.ImageURL, "image", "", "image URL")
	_ = fs.Parse(args)

	switch gate.StateOf(a.sessions.Current()) {
	case gate.StateAuthenticatedAdmin:
		return a.admin.CreateProject(ctx, form)
	case gate.StateAuthenticatedUser:
		return a.user.CreateProject(ctx, form)
	}
	return fmt.Errorf("not allowed here, go to %s", gate.PathLogin)
}

func (a *app) listUpdates(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("updates", flag.ExitOnError)
	projectID := fs.String("project", "", "project id")
	_ = fs.Parse(args)

	var updates []models.ProjectUpdate
	switch gate.StateOf(a.sessions.Current()) {
	case gate.StateAuthenticatedAdmin:
		a.admin.OpenUpdates(ctx, *projectID)
		updates = a.admin.Updates()
	case gate.StateAuthenticatedUser:
		a.user.OpenUpdates(ctx, *projectID)
		updates = a.user.Updates()
	default:
		return fmt.Errorf("not allowed here, go to %s", gate.PathLogin)
	}

	if len(updates) == 0 {
		fmt.Println("No updates for this project.")
		return nil
	}
	for _, u := range updates {
		fmt.Printf("%s | %s\n  %s\n", u.AssigneeUsername, u.CreatedAt, u.Remark)
	}
	return nil
}

func (a *app) addUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-add", flag.ExitOnError)
	projectID := fs.String("project", "", "project id")
	remark := fs.String("remark", "", "status remark")
	_ = fs.Parse(args)

	switch gate.StateOf(a.sessions.Current()) {
	case gate.StateAuthenticatedAdmin:
		a.admin.OpenUpdates(ctx, *projectID)
		return a.admin.AddUpdate(ctx, *remark)
	case gate.StateAuthenticatedUser:
		a.user.OpenUpdates(ctx, *projectID)
		return a.user.AddUpdate(ctx, *remark)
	}
	return fmt.Errorf("not allowed here, go to %s", gate.PathLogin)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
