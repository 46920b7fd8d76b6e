package handlers

import (
	"net/http"

	"mercator-hq/tollgate/pkg/gateway"
)

// SuccessResponse is the body written by Success.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Success responds with status and {"success":true}. It stands in for the
// upstream service behind a protected route. Statuses that forbid a body get
// none.
func Success(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status == http.StatusNoContent || status == http.StatusNotModified {
			w.WriteHeader(status)
			return
		}
		gateway.WriteJSON(w, status, SuccessResponse{Success: true})
	})
}
