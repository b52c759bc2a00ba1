package resp

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"strings"
)

// MIMEOctetStream is the Content-Type of files with an unknown extension.
const MIMEOctetStream = "application/octet-stream"

// mimeTypes maps file extensions, without the leading dot, to their MIME type.
var mimeTypes = map[string]string{
	"csv":  "text/csv",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"gif":  "image/gif",
	"gz":   "application/gzip",
	"htm":  "text/html",
	"html": "text/html",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"json": "application/json",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"pdf":  "application/pdf",
	"png":  "image/png",
	"rtf":  "application/rtf",
	"svg":  "image/svg+xml",
	"txt":  "text/plain",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xml":  "application/xml",
	"zip":  "application/zip",
}

// Files gives a *Responder access to the files it offers for download.
type Files interface {
	Mime(ext string) string
	Size(fp string) (int64, error)
	Get(fp string) ([]byte, error)
}

// FSFiles implements Files over an fs.FS,
// or over the operating system's filesystem if FS is nil.
type FSFiles struct {
	FS fs.FS
}

// Mime returns the MIME type for the extension ext, with or without its leading dot.
func (FSFiles) Mime(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := mimeTypes[ext]; ok {
		return t
	}

	if t := mime.TypeByExtension("." + ext); ext != "" && t != "" {
		return t
	}

	return MIMEOctetStream
}

// Size returns the size of fp in bytes.
func (f FSFiles) Size(fp string) (int64, error) {
	var info fs.FileInfo
	var err error
	if f.FS == nil {
		info, err = os.Stat(fp)
	} else {
		info, err = fs.Stat(f.FS, fp)
	}

	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotExist, err)
	}

	return info.Size(), nil
}

// Get reads all of fp.
func (f FSFiles) Get(fp string) ([]byte, error) {
	var b []byte
	var err error
	if f.FS == nil {
		b, err = os.ReadFile(fp)
	} else {
		b, err = fs.ReadFile(f.FS, fp)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, err)
	}

	return b, nil
}
