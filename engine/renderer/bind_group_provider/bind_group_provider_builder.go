package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithUniform declares a uniform buffer binding of the provider.
//
// Parameters:
//   - binding: the binding index within the group
//   - size: the buffer size in bytes, also used as the minimum binding size
//   - visibility: the shader stages that read the uniform
//
// Returns:
//   - BindGroupProviderOption: a function that declares the uniform binding
func WithUniform(binding int, size uint64, visibility wgpu.ShaderStage) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.uniforms[binding] = uniformBinding{size: size, visibility: visibility}
	}
}
