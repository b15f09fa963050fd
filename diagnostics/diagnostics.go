// Package diagnostics provides read-only statistical analysis of a PNG
// carrier's least-significant-bit plane. It answers "does this carrier
// look disturbed" after an embed, independent of whether the embedded
// payload can still be recovered. It is never part of the write/read
// critical path in package steg.
package diagnostics

import (
	"image"
	"image/draw"
	"math"
)

// Metrics bundles the statistical signals Analyze computes.
type Metrics struct {
	ChiSquareValue    float64
	HistogramDistance float64
	PSNRValue         float64
}

// asNRGBA normalizes an arbitrary image.Image to *image.NRGBA, the same
// normalization steg/png.decodeRGBA performs before LSB embedding. The
// metrics below then read straight out of Pix instead of going through
// the generic, per-pixel image.Image.At/RGBA() interface.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Stride == 4*n.Bounds().Dx() {
		return n
	}
	bounds := img.Bounds()
	n := image.NewNRGBA(bounds)
	draw.Draw(n, bounds, img, bounds.Min, draw.Src)
	return n
}

// ChiSquare performs a chi-square test on the least-significant bits of
// the image's R channel; the G, B and A bytes are not counted. A value
// close to 0 means the LSB plane looks uniformly random,
// which is what dense sequential LSB embedding produces; a carrier with
// no embedded payload usually scores much higher.
func ChiSquare(img image.Image) float64 {
	pix := asNRGBA(img).Pix
	var histogram [2]int
	count := 0.0

	for i := 0; i < len(pix); i += 4 {
		histogram[pix[i]&1]++
		count++
	}

	if count == 0 {
		return 0
	}
	expected := count / 2.0
	chiSquare := 0.0
	for i := 0; i < 2; i++ {
		observed := float64(histogram[i])
		chiSquare += ((observed - expected) * (observed - expected)) / expected
	}
	return chiSquare
}

// HistogramDistance measures the Bhattacharyya distance between the
// R-channel histograms of two images of the same dimensions, typically
// an original carrier and its embedded counterpart.
func HistogramDistance(a, b image.Image) float64 {
	pixA := asNRGBA(a).Pix
	pixB := asNRGBA(b).Pix

	histA := redHistogram(pixA)
	histB := redHistogram(pixB)

	nA := float64(len(pixA) / 4)
	nB := float64(len(pixB) / 4)
	if nA == 0 || nB == 0 {
		return 0
	}

	bc := 0.0
	for i := 0; i < 256; i++ {
		pA := float64(histA[i]) / nA
		pB := float64(histB[i]) / nB
		bc += math.Sqrt(pA * pB)
	}
	if bc == 0 {
		return math.Inf(1)
	}
	return -math.Log(bc)
}

// PSNR computes the peak signal-to-noise ratio between an original
// carrier and its embedded counterpart, across the R, G and B channels.
func PSNR(original, embedded image.Image) float64 {
	pixA := asNRGBA(original).Pix
	pixB := asNRGBA(embedded).Pix

	n := len(pixA)
	if len(pixB) < n {
		n = len(pixB)
	}

	mse := 0.0
	count := 0.0
	for i := 0; i+2 < n; i += 4 {
		for c := 0; c < 3; c++ { // R, G, B; skip the alpha byte at i+3
			d := float64(pixA[i+c]) - float64(pixB[i+c])
			mse += d * d
			count++
		}
	}

	if count == 0 {
		return 0
	}
	mse /= count
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(math.Pow(255, 2)/mse)
}

func redHistogram(pix []byte) [256]int {
	var hist [256]int
	for i := 0; i < len(pix); i += 4 {
		hist[pix[i]]++
	}
	return hist
}

// Analyze runs the full metrics suite, comparing an original carrier
// against the same carrier after an embed.
func Analyze(original, embedded image.Image) Metrics {
	return Metrics{
		ChiSquareValue:    ChiSquare(embedded),
		HistogramDistance: HistogramDistance(original, embedded),
		PSNRValue:         PSNR(original, embedded),
	}
}

// CostMap holds a Sobel-gradient-derived embedding cost per pixel of a
// single channel. It is kept for the sake of the edge-density signal it
// exposes (busy, high-gradient regions hide modification better); it is
// not consulted by steg/png's embed order, which is fixed by spec.
type CostMap struct {
	costs  []float64
	width  int
	height int
}

const epsilon = 1e-6

// EdgeCostMap computes a Sobel-gradient-based embedding cost for each
// pixel of the given channel (0=R, 1=G, 2=B). Lower cost means a
// stronger edge, i.e. a less perceptible place to have embedded data.
func EdgeCostMap(img *image.RGBA, channel int) *CostMap {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	cm := &CostMap{costs: make([]float64, width*height), width: width, height: height}

	sobelX := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			var gx, gy float64
			for i := -1; i <= 1; i++ {
				for j := -1; j <= 1; j++ {
					pixel := channelValue(img, x+i, y+j, channel)
					gx += pixel * sobelX[i+1][j+1]
					gy += pixel * sobelY[i+1][j+1]
				}
			}
			gradient := math.Sqrt(gx*gx + gy*gy)
			cm.set(x, y, 1.0/(gradient+epsilon))
		}
	}

	for y := 0; y < height; y++ {
		cm.set(0, y, math.MaxFloat64)
		cm.set(width-1, y, math.MaxFloat64)
	}
	for x := 0; x < width; x++ {
		cm.set(x, 0, math.MaxFloat64)
		cm.set(x, height-1, math.MaxFloat64)
	}

	return cm
}

// channelValue reads a single channel byte directly out of img.Pix,
// the same raw-buffer access steg/png uses for its bit-level I/O,
// rather than going through the RGBAAt/color.RGBA conversion.
func channelValue(img *image.RGBA, x, y, channel int) float64 {
	if channel < 0 || channel > 2 {
		channel = 1
	}
	offset := img.PixOffset(x, y) + channel
	return float64(img.Pix[offset])
}

func (c *CostMap) set(x, y int, cost float64) {
	c.costs[y*c.width+x] = cost
}

// Get returns the edge cost at (x, y).
func (c *CostMap) Get(x, y int) float64 {
	return c.costs[y*c.width+x]
}

// Width returns the width of the cost map.
func (c *CostMap) Width() int { return c.width }

// Height returns the height of the cost map.
func (c *CostMap) Height() int { return c.height }
