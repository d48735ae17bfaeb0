// Package http contains the chi HTTP handlers for the simulation and
// reporting API.
//
// Every handler follows the same shape: a struct holding its service,
// a Routes() method returning a chi.Router, and RFC 7807 problem
// responses through the shared error handler. Request payloads are
// validated with go-playground/validator struct tags before they reach
// the service layer.
package http
