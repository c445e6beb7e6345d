package converter

import "math"

// Compression is the TIFF compression method written for a given quality.
type Compression int

const (
	CompressionDeflate Compression = iota
	CompressionLZW
	CompressionPackBits
	CompressionNone
)

func (c Compression) String() string {
	switch c {
	case CompressionDeflate:
		return "deflate"
	case CompressionLZW:
		return "lzw"
	case CompressionPackBits:
		return "packbits"
	case CompressionNone:
		return "none"
	default:
		return "unknown"
	}
}

// CompressionFor maps a 0-100 quality to a TIFF compression method. Lower
// quality buys a smaller file:
//
//	 0-25  deflate
//	26-50  lzw
//	51-75  packbits
//	76-100 none
func CompressionFor(quality int) Compression {
	switch q := clampInt(quality); {
	case q <= 25:
		return CompressionDeflate
	case q <= 50:
		return CompressionLZW
	case q <= 75:
		return CompressionPackBits
	default:
		return CompressionNone
	}
}

func clampInt(q int) int {
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// clampQuality forces q into [0,100]. NaN is treated as 0.
func clampQuality(q float64) float64 {
	if math.IsNaN(q) || q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}
