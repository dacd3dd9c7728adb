// Package middleware carries the container-wide filters and the shared error
// body for the HTTP surface.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON error entity every endpoint returns on failure.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// HandleError writes a uniform error entity with the given status code.
func HandleError(resp *restful.Response, err error, status int) {
	if writeErr := resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error(), Status: status}); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// Logger emits one line per request with method, path, status and duration.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	chain.ProcessFilter(req, resp)

	log.Info().
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Request handled")
}

// RecoverPanic converts a handler panic into a 500 instead of taking the
// process down.
func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Str("path", req.Request.URL.Path).
				Msg("Recovered from panic")

			entity := ErrorResponse{Error: "internal server error", Status: http.StatusInternalServerError}
			if err := resp.WriteHeaderAndEntity(http.StatusInternalServerError, entity); err != nil {
				log.Error().Err(err).Msg("Failed to write panic response")
			}
		}
	}()

	chain.ProcessFilter(req, resp)
}
