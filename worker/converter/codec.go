package converter

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// decodeFile reads and fully decodes the image at path using whichever
// registered decoder matches its content.
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindIO, "open", path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, newError(KindDecode, "decode", path, err)
	}
	return img, nil
}

// writeFile creates path and streams the encoder output through a buffered
// writer. On any error the partial file is removed.
func writeFile(path, op string, encode func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return newError(KindIO, "create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = newError(KindIO, "close", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		return newError(KindEncode, op, path, err)
	}
	if err := bw.Flush(); err != nil {
		return newError(KindIO, "write", path, err)
	}
	return nil
}

// flatten composites img onto an opaque white canvas unless it is already
// opaque, in which case it is returned untouched.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
