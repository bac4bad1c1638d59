// Package media validates dropped files and inserts them as atomic
// blocks.
package media

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dshills/markflow/internal/document"
)

var log = commonlog.GetLogger("markflow.media")

// SrcKey is the entity data key holding the media source.
const SrcKey = "mediaSrc"

// ErrInputRejected is matched by every *RejectedError via errors.Is.
var ErrInputRejected = errors.New("input rejected")

// RejectedError reports a drop that was refused. The document is not
// modified.
type RejectedError struct {
	Reason string
	Files  []string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if len(e.Files) == 0 {
		return "drop rejected: " + e.Reason
	}
	return fmt.Sprintf("drop rejected: %s (%s)", e.Reason, strings.Join(e.Files, ", "))
}

// Is reports whether target is ErrInputRejected.
func (e *RejectedError) Is(target error) bool {
	return target == ErrInputRejected
}

// File is a dropped file.
type File struct {
	// Name is the file name or path.
	Name string
	// Type is the declared MIME type, possibly empty.
	Type string
	// Src is the location stored in the entity; Name is used when empty.
	Src string
}

// ContentType returns the declared MIME type, falling back to the type
// implied by the file extension.
func (f File) ContentType() string {
	if f.Type != "" {
		return f.Type
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case "":
		return ""
	}
	return mime.TypeByExtension(ext)
}

// IsImage reports whether f is an image.
func (f File) IsImage() bool {
	ct := f.ContentType()
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	return strings.HasPrefix(ct, "image/")
}

// Inserter is the editing surface a Dropper writes to. InsertEntityBlock
// must create the entity and its atomic block as one edit.
type Inserter interface {
	InsertEntityBlock(kind string, data map[string]any, placeholder string) (document.Document, error)
}

// Dropper turns a single dropped image into a media block.
type Dropper struct {
	target Inserter
}

// NewDropper creates a Dropper writing to target.
func NewDropper(target Inserter) *Dropper {
	return &Dropper{target: target}
}

// Drop inserts the dropped file as a media block after the cursor. Drops
// of anything other than exactly one image fail with *RejectedError.
func (d *Dropper) Drop(files []File) (document.Document, error) {
	if err := validate(files); err != nil {
		log.Infof("%s", err)
		return document.Document{}, err
	}
	f := files[0]
	src := f.Src
	if src == "" {
		src = f.Name
	}

	doc, err := d.target.InsertEntityBlock(document.EntityMedia, map[string]any{SrcKey: src}, filepath.Base(f.Name))
	if err != nil {
		return document.Document{}, fmt.Errorf("drop %s: %w", f.Name, err)
	}
	log.Debugf("inserted media %s", src)
	return doc, nil
}

func validate(files []File) error {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	switch {
	case len(files) == 0:
		return &RejectedError{Reason: "no file"}
	case len(files) > 1:
		return &RejectedError{Reason: fmt.Sprintf("%d files dropped, only one is accepted", len(files)), Files: names}
	case !files[0].IsImage():
		return &RejectedError{Reason: "not an image", Files: names}
	}
	return nil
}
