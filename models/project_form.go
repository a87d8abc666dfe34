package models

import (
	"regexp"
	"strings"

	apperrors "github.com/misexecutive/minda-corp/internal/errors"
)

// MaxImageAttachmentBytes bounds the inline image attachment. The transport
// carries the whole payload in a GET query string, so large images must go by
// URL instead.
const MaxImageAttachmentBytes = 120000

var (
	numericRe  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	imageURLRe = regexp.MustCompile(`(?i)^https?://`)
)

// ProjectForm collects the fields for creating a project. Numeric fields stay
// strings until validated; the remote endpoint stores them as text anyway.
type ProjectForm struct {
	AssigneeUserID        string
	LegacyType            string
	Customer              string
	Model                 string
	ProductDescription    string
	Category              string
	MajorMinor            string
	EffortDays            string
	Platform              string
	SOPDate               string
	VolumeLacs            string
	BusinessPotentialLacs string
	GYRStatus             string
	ImageURL              string
	ImageDataURL          string
	ImageName             string
}

type requiredField struct {
	value func(*ProjectForm) string
	field string
	label string
}

var requiredFields = []requiredField{
	{func(f *ProjectForm) string { return f.LegacyType }, "legacyType", "Legacy/Key less"},
	{func(f *ProjectForm) string { return f.Customer }, "customer", "Customer"},
	{func(f *ProjectForm) string { return f.Model }, "model", "Model"},
	{func(f *ProjectForm) string { return f.ProductDescription }, "productDescription", "Product description"},
	{func(f *ProjectForm) string { return f.Category }, "category", "Category (A/B/C)"},
	{func(f *ProjectForm) string { return f.MajorMinor }, "majorMinor", "Major/Minor"},
	{func(f *ProjectForm) string { return f.EffortDays }, "effortDays", "Effort days"},
	{func(f *ProjectForm) string { return f.Platform }, "platform", "Platform"},
	{func(f *ProjectForm) string { return f.SOPDate }, "sopDate", "SOP date"},
	{func(f *ProjectForm) string { return f.VolumeLacs }, "volumeLacs", "Volume (lacs)"},
	{func(f *ProjectForm) string { return f.BusinessPotentialLacs }, "businessPotentialLacs", "Business potential (lacs)"},
	{func(f *ProjectForm) string { return f.GYRStatus }, "gyrStatus", "GYR"},
}

// Validate runs the client-side checks before any request is sent. The first
// failing check wins, matching the one-message-at-a-time form behavior.
func (f *ProjectForm) Validate(requireTeamLead bool) error {
	if requireTeamLead && strings.TrimSpace(f.AssigneeUserID) == "" {
		return &apperrors.ValidationError{Field: "assigneeUserId", Message: "Team lead is required."}
	}

	for _, rf := range requiredFields {
		if strings.TrimSpace(rf.value(f)) == "" {
			return &apperrors.ValidationError{Field: rf.field, Message: rf.label + " is required."}
		}
	}

	if !numericRe.MatchString(strings.TrimSpace(f.EffortDays)) {
		return &apperrors.ValidationError{Field: "effortDays", Message: "Effort days must be a valid number."}
	}
	if !numericRe.MatchString(strings.TrimSpace(f.VolumeLacs)) {
		return &apperrors.ValidationError{Field: "volumeLacs", Message: "Volume (lacs) must be a valid number."}
	}
	if !numericRe.MatchString(strings.TrimSpace(f.BusinessPotentialLacs)) {
		return &apperrors.ValidationError{Field: "businessPotentialLacs", Message: "Business potential (lacs) must be a valid number."}
	}

	if imageURL := strings.TrimSpace(f.ImageURL); imageURL != "" && !imageURLRe.MatchString(imageURL) {
		return &apperrors.ValidationError{Field: "imageUrl", Message: "Image URL must start with http:// or https://"}
	}

	if len(f.ImageDataURL) > MaxImageAttachmentBytes {
		return &apperrors.ValidationError{Field: "imageDataUrl", Message: "Image attachment is too large. Use an image URL for large files."}
	}

	return nil
}

// Payload builds the creation payload. Both historical naming schemes are
// written so either backend generation accepts it. The assignee is only
// included for elevated callers; the endpoint self-assigns otherwise.
func (f *ProjectForm) Payload(includeAssignee bool) map[string]any {
	payload := map[string]any{
		"title":                 strings.TrimSpace(f.Model),
		"description":           strings.TrimSpace(f.ProductDescription),
		"deadline":              f.SOPDate,
		"legacyType":            strings.TrimSpace(f.LegacyType),
		"customer":              strings.TrimSpace(f.Customer),
		"imageUrl":              strings.TrimSpace(f.ImageURL),
		"imageDataUrl":          f.ImageDataURL,
		"imageName":             f.ImageName,
		"model":                 strings.TrimSpace(f.Model),
		"productDescription":    strings.TrimSpace(f.ProductDescription),
		"category":              strings.TrimSpace(f.Category),
		"majorMinor":            strings.TrimSpace(f.MajorMinor),
		"effortDays":            strings.TrimSpace(f.EffortDays),
		"platform":              strings.TrimSpace(f.Platform),
		"sopDate":               f.SOPDate,
		"volumeLacs":            strings.TrimSpace(f.VolumeLacs),
		"businessPotentialLacs": strings.TrimSpace(f.BusinessPotentialLacs),
		"gyrStatus":             strings.TrimSpace(f.GYRStatus),
	}

	if includeAssignee {
		payload["assigneeUserId"] = f.AssigneeUserID
	}

	return payload
}
