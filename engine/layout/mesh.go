package layout

import "math"

// Face kinds stored per vertex so one draw call can shade every part of a box.
const (
	FaceFront  float32 = 0
	FaceBack   float32 = 1
	FaceSide   float32 = 2
	FaceGround float32 = 3
)

// Vertex is the GPU vertex layout shared by boxes and the ground plane: 36 bytes, tightly packed.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	Face     float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// UVRect maps a face's [0,1] UV square onto the sub-rectangle an image occupies after letterboxing.
// Texture coordinates are (faceUV - Offset) / Scale; anything outside [0,1] is letterbox.
type UVRect struct {
	OffsetU, OffsetV float32
	ScaleU, ScaleV   float32
}

// FullUV is the identity mapping.
var FullUV = UVRect{ScaleU: 1, ScaleV: 1}

// FitUV fits an image of imageAspect (width/height) inside a face of boxAspect without stretching it.
// A wider image is letterboxed top and bottom; a taller one left and right.
//
// Parameters:
//   - imageAspect: the source image's width divided by height
//   - boxAspect: the face's width divided by height
//
// Returns:
//   - UVRect: the placement of the image on the face
func FitUV(imageAspect, boxAspect float32) UVRect {
	if imageAspect <= 0 || boxAspect <= 0 {
		return FullUV
	}
	if imageAspect > boxAspect {
		scale := boxAspect / imageAspect
		return UVRect{OffsetU: 0, OffsetV: (1 - scale) / 2, ScaleU: 1, ScaleV: scale}
	}
	scale := imageAspect / boxAspect
	return UVRect{OffsetU: (1 - scale) / 2, OffsetV: 0, ScaleU: scale, ScaleV: 1}
}

// BoxMesh builds a rectangular prism centered on the origin with every edge chamfered.
// The +Z face is the front cover, the -Z face the back, and the bevels, corners and remaining faces are sides.
//
// Parameters:
//   - width, height, depth: outer dimensions of the box
//   - chamfer: bevel size, clamped to just under half the smallest dimension
//
// Returns:
//   - Mesh: 6 faces, 12 bevel strips and 8 corner triangles
func BoxMesh(width, height, depth, chamfer float32) Mesh {
	half := [3]float32{width / 2, height / 2, depth / 2}
	limit := float32(math.Min(math.Min(float64(half[0]), float64(half[1])), float64(half[2]))) * 0.99
	if chamfer > limit {
		chamfer = limit
	}
	if chamfer < 0 {
		chamfer = 0
	}
	inner := [3]float32{half[0] - chamfer, half[1] - chamfer, half[2] - chamfer}

	var b meshBuilder

	// Faces.
	for axis := 0; axis < 3; axis++ {
		j, k := (axis+1)%3, (axis+2)%3
		for _, s := range [2]float32{1, -1} {
			var n [3]float32
			n[axis] = s
			face := FaceSide
			if axis == 2 {
				face = FaceFront
				if s < 0 {
					face = FaceBack
				}
			}
			var pts [4][3]float32
			for i, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
				pts[i][axis] = s * half[axis]
				pts[i][j] = c[0] * inner[j]
				pts[i][k] = c[1] * inner[k]
			}
			var uvs [4][2]float32
			for i := range pts {
				uvs[i] = faceUV(pts[i], inner, face)
			}
			b.quad(pts, uvs, n, face)
		}
	}

	// Bevels along each edge.
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		k := (i + 2) % 3
		for _, si := range [2]float32{1, -1} {
			for _, sj := range [2]float32{1, -1} {
				var n [3]float32
				n[i], n[j] = si, sj
				n = normalize(n)
				var pts [4][3]float32
				for idx, sk := range [2]float32{-1, 1} {
					// on face i
					pts[idx][i] = si * half[i]
					pts[idx][j] = sj * inner[j]
					pts[idx][k] = sk * inner[k]
					// on face j
					pts[3-idx][i] = si * inner[i]
					pts[3-idx][j] = sj * half[j]
					pts[3-idx][k] = sk * inner[k]
				}
				b.quad(pts, [4][2]float32{}, n, FaceSide)
			}
		}
	}

	// Corners.
	for _, sx := range [2]float32{1, -1} {
		for _, sy := range [2]float32{1, -1} {
			for _, sz := range [2]float32{1, -1} {
				s := [3]float32{sx, sy, sz}
				var pts [3][3]float32
				for a := 0; a < 3; a++ {
					for c := 0; c < 3; c++ {
						if a == c {
							pts[a][c] = s[c] * half[c]
						} else {
							pts[a][c] = s[c] * inner[c]
						}
					}
				}
				b.triangle(pts, normalize(s), FaceSide)
			}
		}
	}

	return b.mesh
}

// GroundMesh builds a square floor quad of the given size at y = 0, facing up.
//
// Parameters:
//   - size: edge length of the square
//
// Returns:
//   - Mesh: two triangles
func GroundMesh(size float32) Mesh {
	h := size / 2
	var b meshBuilder
	b.quad(
		[4][3]float32{{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h}},
		[4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		[3]float32{0, 1, 0},
		FaceGround,
	)
	return b.mesh
}

// faceUV maps a point on the front or back face to the face's [0,1] UV square with V pointing down.
// The back face is mirrored horizontally so it reads correctly once the box is turned around.
func faceUV(p, inner [3]float32, face float32) [2]float32 {
	if face != FaceFront && face != FaceBack || inner[0] == 0 || inner[1] == 0 {
		return [2]float32{}
	}
	u := (p[0] + inner[0]) / (2 * inner[0])
	v := 1 - (p[1]+inner[1])/(2*inner[1])
	if face == FaceBack {
		u = 1 - u
	}
	return [2]float32{u, v}
}

type meshBuilder struct {
	mesh Mesh
}

// quad appends a quad, reordering it so the winding is counter-clockwise seen from the normal's side.
func (b *meshBuilder) quad(pts [4][3]float32, uvs [4][2]float32, n [3]float32, face float32) {
	if dot(cross(sub(pts[1], pts[0]), sub(pts[2], pts[0])), n) < 0 {
		pts[1], pts[3] = pts[3], pts[1]
		uvs[1], uvs[3] = uvs[3], uvs[1]
	}
	base := uint32(len(b.mesh.Vertices))
	for i := range pts {
		b.mesh.Vertices = append(b.mesh.Vertices, Vertex{Position: pts[i], Normal: n, UV: uvs[i], Face: face})
	}
	b.mesh.Indices = append(b.mesh.Indices, base, base+1, base+2, base, base+2, base+3)
}

func (b *meshBuilder) triangle(pts [3][3]float32, n [3]float32, face float32) {
	if dot(cross(sub(pts[1], pts[0]), sub(pts[2], pts[0])), n) < 0 {
		pts[1], pts[2] = pts[2], pts[1]
	}
	base := uint32(len(b.mesh.Vertices))
	for i := range pts {
		b.mesh.Vertices = append(b.mesh.Vertices, Vertex{Position: pts[i], Normal: n, Face: face})
	}
	b.mesh.Indices = append(b.mesh.Indices, base, base+1, base+2)
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(dot(v, v))))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
