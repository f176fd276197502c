package instance

// RegistryBuilderOption is a functional option for configuring a Registry via NewRegistry.
type RegistryBuilderOption func(*registry)

// WithCapacity is an option builder that preallocates room for the expected number of renderables.
//
// Parameters:
//   - n: the expected renderable count
//
// Returns:
//   - RegistryBuilderOption: a function that applies the capacity option to a registry
func WithCapacity(n int) RegistryBuilderOption {
	return func(r *registry) {
		if n > 0 {
			r.records = make([]*record, 0, n)
			r.index = make(map[ID]int, n)
		}
	}
}
