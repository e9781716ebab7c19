package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

// WarpPerspective resamples src onto a width×height canvas through the
// forward transform h (source → destination).
//
// Each destination pixel center is mapped back through h⁻¹ and sampled
// bilinearly. Samples that fall outside src are black, and neighbours that
// fall outside contribute black to the blend.
//
// Returns geometry.ErrDegenerate (wrapped) when h is not invertible.
func WarpPerspective(src image.Image, h geometry.Homography, width, height int) (*image.RGBA, error) {
	inv, err := h.Inverse()
	if err != nil {
		return nil, err
	}

	in := imaging.Clone(src)
	sw, sh := in.Bounds().Dx(), in.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := inv.Apply(geometry.Pt(float64(x), float64(y)))
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || p.X <= -1 || p.Y <= -1 || p.X >= float64(sw) || p.Y >= float64(sh) {
				o := out.PixOffset(x, y)
				out.Pix[o+3] = 255
				continue
			}

			x0 := int(math.Floor(p.X))
			y0 := int(math.Floor(p.Y))
			fx := p.X - float64(x0)
			fy := p.Y - float64(y0)

			var acc [3]float64
			for _, n := range [4]struct {
				dx, dy int
				w      float64
			}{
				{0, 0, (1 - fx) * (1 - fy)},
				{1, 0, fx * (1 - fy)},
				{0, 1, (1 - fx) * fy},
				{1, 1, fx * fy},
			} {
				sx, sy := x0+n.dx, y0+n.dy
				if sx < 0 || sy < 0 || sx >= sw || sy >= sh || n.w == 0 {
					continue
				}
				i := sy*in.Stride + sx*4
				acc[0] += n.w * float64(in.Pix[i])
				acc[1] += n.w * float64(in.Pix[i+1])
				acc[2] += n.w * float64(in.Pix[i+2])
			}

			o := out.PixOffset(x, y)
			out.Pix[o] = saturate(math.Round(acc[0]))
			out.Pix[o+1] = saturate(math.Round(acc[1]))
			out.Pix[o+2] = saturate(math.Round(acc[2]))
			out.Pix[o+3] = 255
		}
	}
	return out, nil
}
