package rest

import (
	"encoding/json"
	"net/http"

	htr "github.com/julienschmidt/httprouter"
)

// SourceInfo represents the source location and license of the server,
// and implements API.
type SourceInfo struct {
	License    string `json:"license"`
	LicensedTo string `json:"licensedTo"`
	Location   string `json:"location"`
}

// Bind implements API.Bind on SourceInfo.
func (s SourceInfo) Bind(r *htr.Router) error {
	bs, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	r.GET("/source", func(
		w http.ResponseWriter,
		r *http.Request,
		_ htr.Params,
	) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(bs)
	})
	return nil
}
