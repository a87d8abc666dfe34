package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/rs/zerolog/log"
)

// envelope is the base response shape; route handlers embed it.
type envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Callback identifiers must stay within the JS identifier charset; anything
// else would let a caller inject arbitrary script into the response body.
var callbackRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// writeJSONP writes `callback(<json>);` as a script body. Without a valid
// callback the JSON is written bare, which keeps curl-style debugging usable.
func writeJSONP(w http.ResponseWriter, callback string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if !callbackRe.MatchString(callback) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(body)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = fmt.Fprintf(w, "%s(%s);", callback, body)
}
