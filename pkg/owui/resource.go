package owui

// resource is the shared base embedded by every router. It carries the HTTP
// transport plus the metadata that marks the embedding struct as a router:
// RouterDescription satisfies the structural marker interface used by tool
// discovery, and OperationDescriptions supplies per-operation help text.
type resource struct {
	t     *transport
	desc  string
	opdoc map[string]string
}

// RouterDescription returns a one-line description of the router.
func (r *resource) RouterDescription() string { return r.desc }

// OperationDescriptions maps exported method names to human-readable
// descriptions for tool listings.
func (r *resource) OperationDescriptions() map[string]string { return r.opdoc }
