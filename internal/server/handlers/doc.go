// Package handlers implements the gateway's HTTP handlers.
//
// The /api/* handlers require an authenticated profile in the request
// context (installed by the authentication middleware) and proxy to the
// custodial wallet platform. The webhook handler accepts signed platform
// notifications and hands them to the notification dispatcher.
package handlers
