package server

// NewDefaultRegistry builds the registry the production server starts
// with: every command named in §6's commands table that this package
// implements.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerBasicCommands(r)
	registerHierarchyCommands(r)
	registerModifyCommands(r)
	registerRPNCommands(r)
	registerObjectCommands(r)
	registerQueryCommands(r)
	registerAggregateCommands(r)
	registerEdgeCommands(r)
	return r
}
