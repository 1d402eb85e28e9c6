package roundbot

// AtlasSize is the number of tiles per side of the texture atlas.
const AtlasSize = 4

// TexCoord returns the four corners of tile (x, y) in an n x n atlas.
func TexCoord(x, y, n int) []float32 {
	m := 1.0 / float32(n)
	dx := float32(x) * m
	dy := float32(y) * m
	return []float32{dx, dy, dx + m, dy, dx + m, dy + m, dx, dy + m}
}

// TexCoords lays out texture coordinates for the six faces of a box in
// vertex order: top, bottom, then the four sides.
func TexCoords(top, bottom, side [2]int) []float32 {
	out := make([]float32, 0, 48)
	out = append(out, TexCoord(top[0], top[1], AtlasSize)...)
	out = append(out, TexCoord(bottom[0], bottom[1], AtlasSize)...)
	s := TexCoord(side[0], side[1], AtlasSize)
	for i := 0; i < 4; i++ {
		out = append(out, s...)
	}
	return out
}
