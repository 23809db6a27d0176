package terrain

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Generation tuning. The surface undulates around a fifth of the map height;
// soil gives way to bedrock toward the bottom; caves are carved where the
// 2D noise field exceeds a threshold.
const (
	surfaceScale     = 0.05
	surfaceAmplitude = 6.0
	caveScale        = 0.08
	caveThreshold    = 0.72
	rockScale        = 0.03
)

// Generate builds a world: open sky, a surface line, soil strata with carved
// caves, and bedrock at depth and along the bottom edge.
func Generate(width, height int, seed int64) *Tiles {
	t := New(width, height)
	heightNoise := opensimplex.NewNormalized(seed)
	caveNoise := opensimplex.NewNormalized(seed + 1)
	rockNoise := opensimplex.NewNormalized(seed + 2)

	baseSurface := height / 5

	for x := 0; x < width; x++ {
		offset := heightNoise.Eval2(float64(x)*surfaceScale, 0)
		surfaceY := baseSurface + int((offset-0.5)*2*surfaceAmplitude)
		if surfaceY < 1 {
			surfaceY = 1
		}
		if surfaceY >= height-1 {
			surfaceY = height - 2
		}

		for y := 0; y < height; y++ {
			switch {
			case y < surfaceY:
				t.Set(x, y, Open)
			case y == surfaceY:
				t.Set(x, y, Surface)
			case y == height-1:
				t.Set(x, y, Solid)
			default:
				t.Set(x, y, undergroundTile(x, y, surfaceY, height, caveNoise, rockNoise))
			}
		}
	}

	return t
}

func undergroundTile(x, y, surfaceY, height int, caveNoise, rockNoise opensimplex.Noise) TileKind {
	depth := y - surfaceY

	// Caves only form below a small soil crust.
	if depth > 3 && caveNoise.Eval2(float64(x)*caveScale, float64(y)*caveScale) > caveThreshold {
		return Open
	}

	// Rock likelihood grows with depth; the lowest band is always bedrock.
	depthFrac := float64(y) / float64(height)
	rock := rockNoise.Eval2(float64(x)*rockScale, float64(y)*rockScale)
	if depthFrac > 0.85 || rock*depthFrac > 0.55 {
		return Solid
	}

	return Soil
}
