// Package pathsvc exposes the binary path codec over HTTP and provides the
// per-item batch processing shared with the pathctl CLI.
//
// Routes:
//   - GET  /health, /ready, /metrics
//   - POST /v1/paths/decode   {"hex": "..."}
//   - POST /v1/paths/encode   {"path": {...}} or {"notation": "..."}
//   - POST /v1/paths/validate {"hex": "..."} or {"path": {...}}
//   - POST /v1/paths/batch    {"items": ["...", ...]}
package pathsvc
