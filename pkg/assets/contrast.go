package assets

import (
	"image"
	"image/color"
	"image/draw"
)

// Contrast blends src away from a flat image of its mean luminance by
// factor: every channel, alpha included, becomes mean + factor*(v-mean),
// computed in float32 and truncated. Alpha pivots on opaque. 1 returns an
// identical copy, 0 a flat grey image. The result matches PIL's
// ImageEnhance.Contrast pixel for pixel.
func Contrast(src image.Image, factor float64) image.Image {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	mean := meanLuminance(dst)
	alpha := float32(factor)

	for i := 0; i+3 < len(dst.Pix); i += 4 {
		for ch := range 3 {
			dst.Pix[i+ch] = blend(mean, dst.Pix[i+ch], alpha)
		}
		dst.Pix[i+3] = blend(0xff, dst.Pix[i+3], alpha)
	}
	return dst
}

// meanLuminance is the ITU-R 601-2 luma average, rounded half up to a whole
// level.
func meanLuminance(img *image.NRGBA) uint8 {
	n := len(img.Pix) / 4
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i+3 < len(img.Pix); i += 4 {
		y := color.GrayModel.Convert(color.NRGBA{
			R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 0xff,
		}).(color.Gray).Y
		sum += float64(y)
	}
	return uint8(sum/float64(n) + 0.5)
}

func blend(base, v uint8, alpha float32) uint8 {
	t := float32(base) + alpha*float32(int(v)-int(base))
	switch {
	case t <= 0:
		return 0
	case t >= 255:
		return 255
	default:
		return uint8(t)
	}
}
