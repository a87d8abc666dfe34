package models

import (
	"encoding/json"
	"strings"
)

// Category options for a project (A/B/C classification).
var CategoryOptions = []string{"A", "B", "C"}

// LegacyTypeOptions for the Legacy/Key less project attribute.
var LegacyTypeOptions = []string{"Legacy", "Key less"}

// MajorMinorOptions for the project scale attribute.
var MajorMinorOptions = []string{"MA", "MI"}

// GYROptions is the traffic-light status classification.
var GYROptions = []string{"G", "Y", "R"}

// NormalizeGYR maps spelled-out traffic-light values onto their single-letter
// form and upper-cases everything else.
func NormalizeGYR(value string) string {
	text := strings.ToUpper(strings.TrimSpace(value))
	switch text {
	case "GREEN":
		return "G"
	case "YELLOW":
		return "Y"
	case "RED":
		return "R"
	}
	return text
}

// Project is the canonical project schema. Two historical field-naming
// schemes coexist on the wire (title/description/deadline vs
// model/productDescription/sopDate); UnmarshalJSON folds both into this one
// shape and MarshalJSON emits both so older consumers keep working.
type Project struct {
	ProjectID             string `json:"projectId"`
	Model                 string `json:"model"`
	ProductDescription    string `json:"productDescription"`
	SOPDate               string `json:"sopDate"`
	AssigneeUserID        string `json:"assigneeUserId"`
	AssigneeUsername      string `json:"assigneeUsername"`
	StatusLatest          string `json:"statusLatest"`
	CreatedAt             string `json:"createdAt"`
	GYRStatus             string `json:"gyrStatus"`
	Category              string `json:"category"`
	Customer              string `json:"customer"`
	LegacyType            string `json:"legacyType"`
	MajorMinor            string `json:"majorMinor"`
	EffortDays            string `json:"effortDays"`
	Platform              string `json:"platform"`
	VolumeLacs            string `json:"volumeLacs"`
	BusinessPotentialLacs string `json:"businessPotentialLacs"`
	ImageURL              string `json:"imageUrl,omitempty"`
	ImageDataURL          string `json:"imageDataUrl,omitempty"`
	ImageName             string `json:"imageName,omitempty"`
}

// projectWire carries every field name either naming scheme may use.
type projectWire struct {
	ProjectID             string `json:"projectId"`
	Title                 string `json:"title"`
	Model                 string `json:"model"`
	Description           string `json:"description"`
	ProductDescription    string `json:"productDescription"`
	Deadline              string `json:"deadline"`
	SOPDate               string `json:"sopDate"`
	AssigneeUserID        string `json:"assigneeUserId"`
	AssigneeUsername      string `json:"assigneeUsername"`
	StatusLatest          string `json:"statusLatest"`
	CreatedAt             string `json:"createdAt"`
	GYRStatus             string `json:"gyrStatus"`
	Category              string `json:"category"`
	Customer              string `json:"customer"`
	LegacyType            string `json:"legacyType"`
	MajorMinor            string `json:"majorMinor"`
	EffortDays            string `json:"effortDays"`
	Platform              string `json:"platform"`
	VolumeLacs            string `json:"volumeLacs"`
	BusinessPotentialLacs string `json:"businessPotentialLacs"`
	ImageURL              string `json:"imageUrl"`
	ImageDataURL          string `json:"imageDataUrl"`
	ImageName             string `json:"imageName"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (p *Project) UnmarshalJSON(data []byte) error {
	var wire projectWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*p = Project{
		ProjectID:             wire.ProjectID,
		Model:                 firstNonEmpty(wire.Model, wire.Title),
		ProductDescription:    firstNonEmpty(wire.ProductDescription, wire.Description),
		SOPDate:               firstNonEmpty(wire.SOPDate, wire.Deadline),
		AssigneeUserID:        wire.AssigneeUserID,
		AssigneeUsername:      wire.AssigneeUsername,
		StatusLatest:          wire.StatusLatest,
		CreatedAt:             wire.CreatedAt,
		GYRStatus:             wire.GYRStatus,
		Category:              wire.Category,
		Customer:              wire.Customer,
		LegacyType:            wire.LegacyType,
		MajorMinor:            wire.MajorMinor,
		EffortDays:            wire.EffortDays,
		Platform:              wire.Platform,
		VolumeLacs:            wire.VolumeLacs,
		BusinessPotentialLacs: wire.BusinessPotentialLacs,
		ImageURL:              wire.ImageURL,
		ImageDataURL:          wire.ImageDataURL,
		ImageName:             wire.ImageName,
	}
	return nil
}

func (p Project) MarshalJSON() ([]byte, error) {
	wire := projectWire{
		ProjectID:             p.ProjectID,
		Title:                 p.Model,
		Model:                 p.Model,
		Description:           p.ProductDescription,
		ProductDescription:    p.ProductDescription,
		Deadline:              p.SOPDate,
		SOPDate:               p.SOPDate,
		AssigneeUserID:        p.AssigneeUserID,
		AssigneeUsername:      p.AssigneeUsername,
		StatusLatest:          p.StatusLatest,
		CreatedAt:             p.CreatedAt,
		GYRStatus:             p.GYRStatus,
		Category:              p.Category,
		Customer:              p.Customer,
		LegacyType:            p.LegacyType,
		MajorMinor:            p.MajorMinor,
		EffortDays:            p.EffortDays,
		Platform:              p.Platform,
		VolumeLacs:            p.VolumeLacs,
		BusinessPotentialLacs: p.BusinessPotentialLacs,
		ImageURL:              p.ImageURL,
		ImageDataURL:          p.ImageDataURL,
		ImageName:             p.ImageName,
	}
	return json.Marshal(wire)
}

// DisplayName returns the model name, falling back to a placeholder for
// records missing one.
func (p Project) DisplayName() string {
	if p.Model != "" {
		return p.Model
	}
	return "Untitled Project"
}

// ProjectUpdate is one append-only status entry for a project.
type ProjectUpdate struct {
	UpdateID         string `json:"updateId"`
	Remark           string `json:"remark"`
	AssigneeUsername string `json:"assigneeUsername"`
	CreatedAt        string `json:"createdAt"`
}
