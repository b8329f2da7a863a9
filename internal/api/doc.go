// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the internal application services, translating HTTP concerns to business
// operations.
//
// Key components:
//
// 1. Handlers:
//   - ProcessHandler accepts text and file submissions and returns the
//     engine's verdict
//   - HistoryHandler lists and clears the persistent history ledger
//   - ProgressHandler upgrades connections to WebSocket and streams
//     progress events
//
// 2. Error Translation:
//   - MapErrorToStatusCode converts service and domain errors to HTTP
//     status codes
//   - GetSafeErrorMessage produces client-facing messages that never leak
//     internal detail
package api
