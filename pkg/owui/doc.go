// Package owui is a typed client for the Open WebUI HTTP API.
//
// A Client is a root object holding one router per API area (chats, models,
// knowledge, files, users). Routers share a common resource base that carries
// the HTTP transport and the router capability marker, so callers (and the
// tool discovery layer) can treat every router uniformly. All operations take
// a context and return an explicit error; non-2xx responses surface as
// *APIError.
package owui
