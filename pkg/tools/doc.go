// Package tools turns the typed Open WebUI client into callable MCP tools.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/owui-mcp/pkg/tools/toolbox] — Tool type and ToolBox registry for registering, listing, and calling tools
//   - [github.com/germanamz/owui-mcp/pkg/tools/schema] — input-schema derivation from request struct types
//   - [github.com/germanamz/owui-mcp/pkg/tools/discover] — router discovery and operation enumeration on a client root
//   - [github.com/germanamz/owui-mcp/pkg/tools/dispatch] — argument validation, invocation and the failure taxonomy
//   - [github.com/germanamz/owui-mcp/pkg/tools/mcpserver] — MCP server using the official MCP Go SDK for exposing tools over the protocol
//
// The toolbox sub-package is the foundation layer: discover produces
// Operation descriptors, dispatch binds them into toolbox Tools, and
// mcpserver serves the resulting registry over stdio.
package tools
