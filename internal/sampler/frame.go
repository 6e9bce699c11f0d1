package sampler

import (
	"bytes"
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/bmp"

	"github.com/jmylchreest/subtinct/internal/subtitle"
)

// frameBrightness decodes the bitmap the decoder wrote to stdout and returns
// its mean luma.
func frameBrightness(res Result, video string, at subtitle.Timestamp) (Brightness, error) {
	if len(res.Stdout) == 0 {
		return 0, &Error{Kind: ErrNoFrame, Video: video, At: at, Detail: excerpt(res.Stderr)}
	}

	img, err := bmp.Decode(bytes.NewReader(res.Stdout))
	if err != nil {
		return 0, &Error{Kind: ErrParse, Video: video, At: at, Err: err}
	}

	b, ok := meanLuma(img)
	if !ok {
		return 0, &Error{Kind: ErrNoFrame, Video: video, At: at, Err: errors.New("frame has no pixels")}
	}
	return b, nil
}

// meanLuma averages the luma of every pixel of img. It reports false for an
// empty image.
func meanLuma(img image.Image) (Brightness, bool) {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return 0, false
	}

	var sum uint64
	switch m := img.(type) {
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := m.PixOffset(bounds.Min.X, y)
			for _, v := range m.Pix[i : i+bounds.Dx()] {
				sum += uint64(v)
			}
		}
	case *image.Paletted:
		// Convert the palette once; frames are large, palettes are not.
		lum := make([]uint8, len(m.Palette))
		for i, c := range m.Palette {
			lum[i] = color.GrayModel.Convert(c).(color.Gray).Y
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := m.PixOffset(bounds.Min.X, y)
			for _, idx := range m.Pix[i : i+bounds.Dx()] {
				if int(idx) < len(lum) {
					sum += uint64(lum[idx])
				}
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				sum += uint64(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			}
		}
	}

	return Brightness(float64(sum) / float64(n)), true
}
