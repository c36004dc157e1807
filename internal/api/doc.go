// Package api contains the HTTP handlers for the task list REST surface:
// listing and creating tasks and requesting a summary. Handlers translate
// between the wire format and the service layer, mapping domain errors to
// client-safe responses.
package api
