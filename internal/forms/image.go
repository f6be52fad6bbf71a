package forms

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"mime/multipart"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrInvalidImage is reported for uploads that are not a decodable image.
var ErrInvalidImage = errors.New("upload a valid image, the file you uploaded was either not an image or a corrupted image")

// Upload is a validated image ready to be stored.
type Upload struct {
	Header      *multipart.FileHeader
	Format      string
	Ext         string
	ContentType string
}

var imageFormats = map[string]struct{ ext, contentType string }{
	"gif":  {".gif", "image/gif"},
	"jpeg": {".jpg", "image/jpeg"},
	"png":  {".png", "image/png"},
	"webp": {".webp", "image/webp"},
}

// ValidateImage checks the upload size and decodes the image header to detect its real format.
func ValidateImage(fh *multipart.FileHeader, maxBytes int64) (*Upload, error) {
	if fh.Size == 0 {
		return nil, errors.New("the submitted file is empty")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, fmt.Errorf("ensure the image is at most %d MB", maxBytes/(1024*1024))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DetectImage(f, fh)
}

// DetectImage reads an image header from r.
func DetectImage(r io.Reader, fh *multipart.FileHeader) (*Upload, error) {
	_, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, ErrInvalidImage
	}
	meta, ok := imageFormats[format]
	if !ok {
		return nil, ErrInvalidImage
	}
	return &Upload{
		Header:      fh,
		Format:      format,
		Ext:         meta.ext,
		ContentType: meta.contentType,
	}, nil
}
