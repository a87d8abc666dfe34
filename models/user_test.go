package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misexecutive/minda-corp/models"
)

func TestFlexBool_Unmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"json true", `true`, true},
		{"json false", `false`, false},
		{"string TRUE", `"TRUE"`, true},
		{"string true lowercase", `"true"`, true},
		{"string FALSE", `"FALSE"`, false},
		{"string garbage", `"yes"`, false},
		{"empty string", `""`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fb models.FlexBool
			require.NoError(t, json.Unmarshal([]byte(tc.in), &fb))
			require.Equal(t, tc.want, fb.Bool())
		})
	}
}

func TestFlexBool_MarshalNormalizes(t *testing.T) {
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(`{"username":"asha","active":"TRUE"}`), &u))
	require.True(t, u.Active.Bool())

	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.Contains(t, string(out), `"active":true`)
}
