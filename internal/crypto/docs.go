// crypto package provides the webhook signature-verification pipeline for
// the gateway.
//
// these are low level functions - for standard usage (dispatching a webhook
// notification) you will not need to call these functions directly.
// See the notify package for high level functions.
package crypto
