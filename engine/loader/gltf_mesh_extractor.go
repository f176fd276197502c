package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var errNodeCycle = errors.New("node hierarchy contains a cycle")

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser

	// primitive cache keyed by mesh index, shared by nodes that reference the same mesh
	cache map[int][]*model.ImportedMesh
}

// gltfMeshExtractor flattens the node hierarchy of a parsed document into model-space meshes.
type gltfMeshExtractor interface {
	// ExtractScene walks the default scene (or every root node when the document has no scenes)
	// and returns one ImportedMesh per triangle primitive, each carrying its accumulated node transform.
	// Documents without nodes fall back to every mesh at identity.
	//
	// Returns:
	//   - []*model.ImportedMesh: the flattened meshes in traversal order
	//   - error: error if a primitive cannot be read
	ExtractScene() ([]*model.ImportedMesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{
		parser: parser,
		cache:  make(map[int][]*model.ImportedMesh),
	}
}

func (e *gltfMeshExtractorImpl) ExtractScene() ([]*model.ImportedMesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}

	if len(doc.Nodes) == 0 {
		var result []*model.ImportedMesh
		for i := range doc.Meshes {
			prims, err := e.meshPrimitives(i)
			if err != nil {
				return nil, err
			}
			for _, p := range prims {
				result = append(result, placed(p, mgl32.Ident4()))
			}
		}
		return result, nil
	}

	var result []*model.ImportedMesh
	visiting := make([]bool, len(doc.Nodes))
	for _, root := range sceneRoots(doc) {
		if err := e.walk(doc, root, mgl32.Ident4(), visiting, &result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) walk(doc *gltfDocument, nodeIndex int, parent mgl32.Mat4, visiting []bool, out *[]*model.ImportedMesh) error {
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", nodeIndex)
	}
	if visiting[nodeIndex] {
		return fmt.Errorf("node %d: %w", nodeIndex, errNodeCycle)
	}
	visiting[nodeIndex] = true
	defer func() { visiting[nodeIndex] = false }()

	node := &doc.Nodes[nodeIndex]
	world := parent.Mul4(nodeTransform(node))

	if node.Mesh != nil {
		prims, err := e.meshPrimitives(*node.Mesh)
		if err != nil {
			return fmt.Errorf("node %d: %w", nodeIndex, err)
		}
		for _, p := range prims {
			*out = append(*out, placed(p, world))
		}
	}

	for _, child := range node.Children {
		if err := e.walk(doc, child, world, visiting, out); err != nil {
			return err
		}
	}
	return nil
}

// meshPrimitives extracts the triangle primitives of one glTF mesh. Non-triangle primitives are skipped.
func (e *gltfMeshExtractorImpl) meshPrimitives(meshIndex int) ([]*model.ImportedMesh, error) {
	if cached, ok := e.cache[meshIndex]; ok {
		return cached, nil
	}

	doc := e.parser.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	result := make([]*model.ImportedMesh, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}

		imported, err := e.extractPrimitive(prim, primitiveName(mesh.Name, meshIndex, primIdx, len(mesh.Primitives)))
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, imported)
	}

	e.cache[meshIndex] = result
	return result, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, name string) (*model.ImportedMesh, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}

	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("index %d exceeds vertex count %d", idx, len(positions))
			}
		}
	}

	return &model.ImportedMesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
		Transform: mgl32.Ident4(),
		Bounds:    model.CalculateBounds(positions),
	}, nil
}

// placed returns a shallow copy of a primitive positioned by the given node transform.
// Geometry slices are shared between copies.
func placed(prim *model.ImportedMesh, transform mgl32.Mat4) *model.ImportedMesh {
	m := *prim
	m.Transform = transform
	return &m
}

// nodeTransform returns the local matrix of a node: Matrix when present, else T * R * S.
func nodeTransform(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}

	t := mgl32.Vec3{}
	if node.Translation != nil {
		t = mgl32.Vec3(*node.Translation)
	}
	r := mgl32.QuatIdent()
	if node.Rotation != nil {
		rot := *node.Rotation
		r = mgl32.Quat{W: rot[3], V: mgl32.Vec3{rot[0], rot[1], rot[2]}}
	}
	s := mgl32.Vec3{1, 1, 1}
	if node.Scale != nil {
		s = mgl32.Vec3(*node.Scale)
	}
	return common.ComposeTransform(t, r, s)
}

// sceneRoots picks the root nodes to traverse: the default scene, the first scene, or
// every node that is nobody's child.
func sceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	roots := make([]int, 0, len(doc.Nodes))
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

func primitiveName(meshName string, meshIndex, primIndex, primCount int) string {
	if meshName == "" {
		meshName = fmt.Sprintf("mesh_%d", meshIndex)
	}
	if primCount == 1 {
		return meshName
	}
	return fmt.Sprintf("%s_%d", meshName, primIndex)
}
