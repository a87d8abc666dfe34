package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misexecutive/minda-corp/models"
)

func TestNormalizeGYR(t *testing.T) {
	cases := map[string]string{
		"GREEN":  "G",
		"green":  "G",
		"Yellow": "Y",
		" RED ":  "R",
		"G":      "G",
		"y":      "Y",
		"":       "",
		"BLUE":   "BLUE",
	}
	for in, want := range cases {
		require.Equal(t, want, models.NormalizeGYR(in), "input %q", in)
	}
}

func TestProject_UnmarshalFoldsBothSchemes(t *testing.T) {
	t.Run("legacy field names", func(t *testing.T) {
		var p models.Project
		raw := `{"projectId":"P-1","title":"EcoDrive","description":"Smart key module","deadline":"2026-03-01"}`
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		require.Equal(t, "EcoDrive", p.Model)
		require.Equal(t, "Smart key module", p.ProductDescription)
		require.Equal(t, "2026-03-01", p.SOPDate)
	})

	t.Run("canonical field names", func(t *testing.T) {
		var p models.Project
		raw := `{"projectId":"P-2","model":"EcoDrive","productDescription":"Smart key module","sopDate":"2026-03-01"}`
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		require.Equal(t, "EcoDrive", p.Model)
		require.Equal(t, "Smart key module", p.ProductDescription)
		require.Equal(t, "2026-03-01", p.SOPDate)
	})

	t.Run("canonical wins when both present", func(t *testing.T) {
		var p models.Project
		raw := `{"title":"OldName","model":"NewName","description":"old","productDescription":"new"}`
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		require.Equal(t, "NewName", p.Model)
		require.Equal(t, "new", p.ProductDescription)
	})
}

func TestProject_MarshalEmitsBothSchemes(t *testing.T) {
	p := models.Project{
		ProjectID:          "P-3",
		Model:              "EcoDrive",
		ProductDescription: "Smart key module",
		SOPDate:            "2026-03-01",
	}

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(out, &wire))
	require.Equal(t, "EcoDrive", wire["title"])
	require.Equal(t, "EcoDrive", wire["model"])
	require.Equal(t, "Smart key module", wire["description"])
	require.Equal(t, "Smart key module", wire["productDescription"])
	require.Equal(t, "2026-03-01", wire["deadline"])
	require.Equal(t, "2026-03-01", wire["sopDate"])
}

func TestProject_DisplayName(t *testing.T) {
	require.Equal(t, "EcoDrive", models.Project{Model: "EcoDrive"}.DisplayName())
	require.Equal(t, "Untitled Project", models.Project{}.DisplayName())
}
