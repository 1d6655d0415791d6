// Package server provides the HTTP server for the wallet gateway.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// Routes:
//   - /api/* - the authenticated wallet operations
//   - /webhooks - platform notification intake
//   - common infrastructure handlers (health, version)
//
// middleware is in internal/server/middleware
package server
