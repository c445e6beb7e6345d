package converter

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"
)

// Baseline TIFF tags and field types used by the PackBits writer.
const (
	tagImageWidth                = 256
	tagImageLength               = 257
	tagBitsPerSample             = 258
	tagCompression               = 259
	tagPhotometricInterpretation = 262
	tagStripOffsets              = 273
	tagSamplesPerPixel           = 277
	tagRowsPerStrip              = 278
	tagStripByteCounts           = 279
	tagXResolution               = 282
	tagYResolution               = 283
	tagPlanarConfiguration       = 284
	tagResolutionUnit            = 296
	tagExtraSamples              = 338

	typeShort    = 3
	typeLong     = 4
	typeRational = 5

	compressionPackBits = 32773
	photometricRGB      = 2
	unassociatedAlpha   = 2
	resolutionUnitInch  = 2
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	// value holds the inline value; ignored when extra is set.
	value uint32
	extra []byte
}

// encodePackBitsTIFF writes m as a single-strip little-endian TIFF with
// PackBits compressed rows. hhrutter/tiff and x/image/tiff read PackBits but
// neither writes it.
func encodePackBitsTIFF(w io.Writer, m *image.NRGBA) error {
	b := m.Bounds()
	width, height := b.Dx(), b.Dy()

	var strip bytes.Buffer
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := m.PixOffset(b.Min.X, y)
		packBits(&strip, m.Pix[off:off+width*4])
	}
	stripLen := strip.Len()
	// The IFD has to start on a word boundary.
	if stripLen%2 == 1 {
		strip.WriteByte(0)
	}

	le := binary.LittleEndian
	bitsPerSample := make([]byte, 8)
	for i := 0; i < 4; i++ {
		le.PutUint16(bitsPerSample[i*2:], 8)
	}
	resolution := make([]byte, 8)
	le.PutUint32(resolution[0:], 72)
	le.PutUint32(resolution[4:], 1)

	entries := []ifdEntry{
		{tag: tagImageWidth, typ: typeLong, count: 1, value: uint32(width)},
		{tag: tagImageLength, typ: typeLong, count: 1, value: uint32(height)},
		{tag: tagBitsPerSample, typ: typeShort, count: 4, extra: bitsPerSample},
		{tag: tagCompression, typ: typeShort, count: 1, value: compressionPackBits},
		{tag: tagPhotometricInterpretation, typ: typeShort, count: 1, value: photometricRGB},
		{tag: tagStripOffsets, typ: typeLong, count: 1, value: 8},
		{tag: tagSamplesPerPixel, typ: typeShort, count: 1, value: 4},
		{tag: tagRowsPerStrip, typ: typeLong, count: 1, value: uint32(height)},
		{tag: tagStripByteCounts, typ: typeLong, count: 1, value: uint32(stripLen)},
		{tag: tagXResolution, typ: typeRational, count: 1, extra: resolution},
		{tag: tagYResolution, typ: typeRational, count: 1, extra: resolution},
		{tag: tagPlanarConfiguration, typ: typeShort, count: 1, value: 1},
		{tag: tagResolutionUnit, typ: typeShort, count: 1, value: resolutionUnitInch},
		{tag: tagExtraSamples, typ: typeShort, count: 1, value: unassociatedAlpha},
	}

	ifdOffset := 8 + strip.Len()
	extraOffset := ifdOffset + 2 + len(entries)*12 + 4

	var out bytes.Buffer
	out.WriteString("II*\x00")
	binary.Write(&out, le, uint32(ifdOffset))
	out.Write(strip.Bytes())

	binary.Write(&out, le, uint16(len(entries)))
	var extra bytes.Buffer
	for _, e := range entries {
		var field [12]byte
		le.PutUint16(field[0:], e.tag)
		le.PutUint16(field[2:], e.typ)
		le.PutUint32(field[4:], e.count)
		switch {
		case e.extra != nil:
			le.PutUint32(field[8:], uint32(extraOffset+extra.Len()))
			extra.Write(e.extra)
		case e.typ == typeShort:
			le.PutUint16(field[8:], uint16(e.value))
		default:
			le.PutUint32(field[8:], e.value)
		}
		out.Write(field[:])
	}
	binary.Write(&out, le, uint32(0))
	out.Write(extra.Bytes())

	_, err := w.Write(out.Bytes())
	return err
}

// packBits appends the PackBits encoding of src to dst. Runs of two or more
// equal bytes become replicate runs, everything else literal runs, each at
// most 128 bytes long.
func packBits(dst *bytes.Buffer, src []byte) {
	for i := 0; i < len(src); {
		run := 1
		for i+run < len(src) && run < 128 && src[i+run] == src[i] {
			run++
		}
		if run >= 2 {
			dst.WriteByte(byte(257 - run))
			dst.WriteByte(src[i])
			i += run
			continue
		}

		start := i
		i++
		for i < len(src) && i-start < 128 {
			if i+1 < len(src) && src[i] == src[i+1] {
				break
			}
			i++
		}
		dst.WriteByte(byte(i - start - 1))
		dst.Write(src[start:i])
	}
}
