package shader

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ShowroomSource is the WGSL program drawing instanced meshes lit by a single light.
// The vertex stage reads positions from buffer slot 0 and the instance transform from slot 1.
//
//go:embed assets/showroom.wgsl
var ShowroomSource string

// SceneUniformSize is the byte size of SceneUniform on the GPU.
const SceneUniformSize = 144

// Light kinds understood by fs_main, stored in SceneUniform.LightParams[2].
const (
	LightKindPoint float32 = iota
	LightKindSpot
	LightKindDirectional
	LightKindAmbient
)

// SceneUniform is the GPU-aligned per-frame uniform of the showroom program (see ShowroomSource).
type SceneUniform struct {
	ViewProj       mgl32.Mat4 // offset   0: column-major view-projection (64 bytes)
	LightPosition  [4]float32 // offset  64: world position of the light, w unused (16 bytes)
	LightColor     [4]float32 // offset  80: light colour pre-multiplied by intensity (16 bytes)
	BaseColor      [4]float32 // offset  96: surface colour of every mesh (16 bytes)
	LightDirection [4]float32 // offset 112: normalized light axis, w = range, 0 for no falloff (16 bytes)
	LightParams    [4]float32 // offset 128: cos inner cone, cos outer cone, light kind, unused (16 bytes)
}

// Marshal serializes the SceneUniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (u *SceneUniform) Marshal() []byte {
	buf := make([]byte, SceneUniformSize)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	for _, v := range u.ViewProj {
		put(v)
	}
	for _, v := range u.LightPosition {
		put(v)
	}
	for _, v := range u.LightColor {
		put(v)
	}
	for _, v := range u.BaseColor {
		put(v)
	}
	for _, v := range u.LightDirection {
		put(v)
	}
	for _, v := range u.LightParams {
		put(v)
	}
	return buf
}
