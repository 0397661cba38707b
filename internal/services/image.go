package services

import (
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"bantu/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes caps a single uploaded image at 16 MiB.
	MaxUploadBytes = 16 << 20
	// maxDimension is the bounding box pictures are scaled down into.
	maxDimension = 500
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds the upload size limit")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedImage reports whether the filename carries an accepted extension.
func AllowedImage(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SavePicture validates, resizes and stores an uploaded image under a
// random filename inside uploadDir, returning the stored filename. The
// caller persists only the returned name; files are served via /static.
func SavePicture(header *multipart.FileHeader, uploadDir string) (string, error) {
	if header.Size > MaxUploadBytes {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return "", ErrUnsupportedType
	}

	dst := fitToBounds(src)

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ext
	path := filepath.Join(uploadDir, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, dst, &jpeg.Options{Quality: 85})
	case ".png":
		err = png.Encode(out, dst)
	case ".gif":
		err = gif.Encode(out, dst, nil)
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	utils.Sugar.Debugw("saved upload", "file", filename, "bytes", header.Size)
	return filename, nil
}

// fitToBounds scales the image proportionally so that neither side exceeds
// maxDimension. Images already inside the envelope pass through untouched.
func fitToBounds(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDimension && h <= maxDimension {
		return src
	}

	scale := float64(maxDimension) / float64(w)
	if h > w {
		scale = float64(maxDimension) / float64(h)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
