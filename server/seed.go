package server

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/misexecutive/minda-corp/internal/utils"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/session"
)

type seedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Active   *bool  `yaml:"active"`
}

type seedProject struct {
	Model                 string `yaml:"model"`
	ProductDescription    string `yaml:"productDescription"`
	Customer              string `yaml:"customer"`
	Category              string `yaml:"category"`
	LegacyType            string `yaml:"legacyType"`
	MajorMinor            string `yaml:"majorMinor"`
	EffortDays            string `yaml:"effortDays"`
	Platform              string `yaml:"platform"`
	SOPDate               string `yaml:"sopDate"`
	VolumeLacs            string `yaml:"volumeLacs"`
	BusinessPotentialLacs string `yaml:"businessPotentialLacs"`
	GYRStatus             string `yaml:"gyrStatus"`
	Assignee              string `yaml:"assignee"`
}

type seedFile struct {
	Admin    *seedUser     `yaml:"admin"`
	Users    []seedUser    `yaml:"users"`
	Projects []seedProject `yaml:"projects"`
}

// seed populates the stores from the configured seed file, or bootstraps a
// default admin account so a fresh server is usable immediately.
func (s *Server) seed() error {
	path := s.config.GetSeedFile()
	if path == "" {
		return s.bootstrapAdmin()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "[Server.seed] read seed file %s", path)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return errors.Wrapf(err, "[Server.seed] parse seed file %s", path)
	}

	if seed.Admin == nil {
		if err := s.bootstrapAdmin(); err != nil {
			return err
		}
	} else {
		if _, err := s.users.Create(seed.Admin.Username, seed.Admin.Password, true, session.RoleAdmin); err != nil {
			return errors.Wrap(err, "[Server.seed] create admin")
		}
	}

	byName := make(map[string]string)
	for _, u := range seed.Users {
		account, err := s.users.Create(u.Username, u.Password, utils.ValueOr(u.Active, true), session.RoleUser)
		if err != nil {
			return errors.Wrapf(err, "[Server.seed] create user %s", u.Username)
		}
		byName[strings.ToLower(account.Username)] = account.UserID
	}

	for _, p := range seed.Projects {
		assigneeID, ok := byName[strings.ToLower(p.Assignee)]
		if !ok {
			return errors.Errorf("[Server.seed] project %q assignee %q is not a seeded user", p.Model, p.Assignee)
		}
		account, err := s.users.GetByID(assigneeID)
		if err != nil {
			return errors.Wrap(err, "[Server.seed] resolve assignee")
		}
		s.projects.Create(models.Project{
			ProjectID:             "P-" + strings.ToUpper(uuid.NewString()[:8]),
			Model:                 p.Model,
			ProductDescription:    p.ProductDescription,
			Customer:              p.Customer,
			Category:              p.Category,
			LegacyType:            p.LegacyType,
			MajorMinor:            p.MajorMinor,
			EffortDays:            p.EffortDays,
			Platform:              p.Platform,
			SOPDate:               p.SOPDate,
			VolumeLacs:            p.VolumeLacs,
			BusinessPotentialLacs: p.BusinessPotentialLacs,
			GYRStatus:             models.NormalizeGYR(p.GYRStatus),
			AssigneeUserID:        account.UserID,
			AssigneeUsername:      account.Username,
			CreatedAt:             time.Now().UTC().Format(time.RFC3339),
		})
	}

	log.Info().Int("users", len(seed.Users)).Int("projects", len(seed.Projects)).Msg("seeded stores")
	return nil
}

func (s *Server) bootstrapAdmin() error {
	password := s.config.GetBootstrapAdminPassword()
	if _, err := s.users.Create("admin", password, true, session.RoleAdmin); err != nil {
		return errors.Wrap(err, "[Server.bootstrapAdmin] create admin")
	}
	log.Warn().Msg("no seed file configured; bootstrapped default admin account")
	return nil
}
