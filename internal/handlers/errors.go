package handlers

import (
	"errors"
	"net/http"

	"github.com/justsurfingit/job-portal/internal/backend"
)

// backendStatus maps a backend failure to the status the API answers with.
func backendStatus(err error) int {
	if errors.Is(err, backend.ErrNotFound) {
		return http.StatusNotFound
	}
	var reqErr *backend.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.StatusCode {
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return reqErr.StatusCode
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusForbidden
		}
	}
	return http.StatusBadGateway
}
