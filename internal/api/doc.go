// Package api contains the HTTP handlers, request/response models, and
// error mapping for the WordVault API. Handlers stay thin: they decode and
// validate input, delegate to the service layer, and translate errors to
// sanitized HTTP responses.
package api
