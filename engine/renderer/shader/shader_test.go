package shader

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowroomVertexLayouts(t *testing.T) {
	vs, err := NewShader("showroom vs", ShaderTypeVertex, ShowroomSource)
	require.NoError(t, err)
	assert.Equal(t, "vs_main", vs.EntryPoint())

	layouts := vs.VertexLayouts()
	require.Len(t, layouts, 2)

	assert.Equal(t, uint64(12), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	require.Len(t, layouts[0].Attributes, 1)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint32(0), layouts[0].Attributes[0].ShaderLocation)

	assert.Equal(t, uint64(64), layouts[1].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
	require.Len(t, layouts[1].Attributes, 4)
	for i, attr := range layouts[1].Attributes {
		assert.Equal(t, wgpu.VertexFormatFloat32x4, attr.Format)
		assert.Equal(t, uint64(i*16), attr.Offset)
		assert.Equal(t, uint32(i+1), attr.ShaderLocation)
	}
}

func TestFragmentShaderHasNoLayouts(t *testing.T) {
	fs, err := NewShader("showroom fs", ShaderTypeFragment, ShowroomSource)
	require.NoError(t, err)
	assert.Equal(t, "fs_main", fs.EntryPoint())
	assert.Empty(t, fs.VertexLayouts())
	assert.Equal(t, ShowroomSource, fs.Module().WGSLDescriptor.Code)
	assert.Equal(t, "showroom fs", fs.Module().Label)
}

func TestNewShaderRequiresEntryPoint(t *testing.T) {
	src := `
// @vertex fn commented_out() {}
/* @vertex
fn also_commented() {} */
@fragment fn frag() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`
	_, err := NewShader("broken", ShaderTypeVertex, src)
	assert.Error(t, err)

	fs, err := NewShader("ok", ShaderTypeFragment, src)
	require.NoError(t, err)
	assert.Equal(t, "frag", fs.EntryPoint())
}

func TestParseVertexLayoutsSkipsUnknownTypes(t *testing.T) {
	src := `
struct Weird {
    @location(0) m: mat4x4<f32>,
};
struct Plain {
    @location(0) uv: vec2<f32>,
    @location(1) tint: vec4f,
};
`
	layouts := parseVertexLayouts(src)
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(24), layouts[0].ArrayStride)
	assert.Equal(t, uint64(8), layouts[0].Attributes[1].Offset)
}

func TestSceneUniformMarshal(t *testing.T) {
	u := SceneUniform{
		ViewProj:       mgl32.Translate3D(1, 2, 3),
		LightPosition:  [4]float32{10, 20, 30, 1},
		LightColor:     [4]float32{1, 0.5, 0.25, 1},
		BaseColor:      [4]float32{0.8, 0.8, 0.8, 1},
		LightDirection: [4]float32{0, 0, -1, 2000},
		LightParams:    [4]float32{0.9, 0.5, LightKindSpot, 0},
	}
	buf := u.Marshal()
	require.Len(t, buf, SceneUniformSize)

	at := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	assert.Equal(t, float32(1), at(12), "translation x is element 12 of the column-major matrix")
	assert.Equal(t, float32(20), at(17))
	assert.Equal(t, float32(0.5), at(21))
	assert.Equal(t, float32(0.8), at(24))
	assert.Equal(t, float32(-1), at(30))
	assert.Equal(t, float32(2000), at(31))
	assert.Equal(t, float32(0.9), at(32))
	assert.Equal(t, float32(0.5), at(33))
	assert.Equal(t, LightKindSpot, at(34))
}

func TestShowroomSourceDeclaresLightKinds(t *testing.T) {
	for name, kind := range map[string]float32{
		"LIGHT_POINT":       LightKindPoint,
		"LIGHT_SPOT":        LightKindSpot,
		"LIGHT_DIRECTIONAL": LightKindDirectional,
		"LIGHT_AMBIENT":     LightKindAmbient,
	} {
		assert.Contains(t, ShowroomSource, fmt.Sprintf("const %s: f32 = %.1f;", name, kind))
	}
	assert.Contains(t, ShowroomSource, "light_direction: vec4<f32>")
	assert.Contains(t, ShowroomSource, "light_params: vec4<f32>")
}
