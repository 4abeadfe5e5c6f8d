package uploads

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

const jpegQuality = 85

// Rendition sizes. Both are bounding boxes, aspect ratio is preserved.
const (
	ThumbMaxSize  = 150
	MediumMaxSize = 300
)

// DerivativeSet holds the area-relative paths of generated renditions.
type DerivativeSet struct {
	Thumb  string
	Medium string
}

// GenerateDerivatives produces the thumb and medium renditions of a stored
// original, re-encoded as JPEG. The original must already live in the store
// area.
func (s *Store) GenerateDerivatives(storedRel string) (DerivativeSet, error) {
	var set DerivativeSet

	name, ok := strings.CutPrefix(storedRel, "store/")
	if !ok {
		return set, fmt.Errorf("derivatives need a stored original, got %q", storedRel)
	}

	f, err := os.Open(filepath.Join(s.StoreDir, name))
	if err != nil {
		return set, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return set, err
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))

	thumbName := base + "_thumb.jpg"
	if err := s.writeResized(src, thumbName, ThumbMaxSize); err != nil {
		return set, err
	}
	set.Thumb = "store/" + thumbName

	mediumName := base + "_medium.jpg"
	if err := s.writeResized(src, mediumName, MediumMaxSize); err != nil {
		return set, err
	}
	set.Medium = "store/" + mediumName

	return set, nil
}

func (s *Store) writeResized(src image.Image, name string, maxSize int) error {
	resized := resizeToFit(src, maxSize, maxSize)
	out, err := os.Create(filepath.Join(s.StoreDir, name))
	if err != nil {
		return err
	}
	defer out.Close()
	return jpeg.Encode(out, resized, &jpeg.Options{Quality: jpegQuality})
}

// resizeToFit scales src down so it fits inside maxWidth x maxHeight.
// Images already inside the box are returned untouched.
func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
