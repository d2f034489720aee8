// Package attachment clasifica los adjuntos de los registros para enrutar su visualización.
package attachment

import (
	"path"
	"strings"
)

// Kind clasificación de presentación de un adjunto.
type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
	KindNone  Kind = "none"
)

// Ref referencia a un adjunto ya almacenado.
type Ref struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Kind        Kind   `json:"kind"`
	Size        int64  `json:"size"`
}

var imageExt = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".svg": {},
}

// Classify usa primero el tipo MIME y, si no decide, la extensión del nombre o URL.
func Classify(contentType, name string) Kind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage
	case ct == "application/pdf":
		return KindPDF
	}
	clean := name
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	ext := strings.ToLower(path.Ext(clean))
	if ext == ".pdf" {
		return KindPDF
	}
	if _, ok := imageExt[ext]; ok {
		return KindImage
	}
	return KindNone
}

// KindOf clasifica una referencia opcional; nil = sin adjunto.
func KindOf(ref *Ref) Kind {
	if ref == nil || (ref.Key == "" && ref.Name == "") {
		return KindNone
	}
	if ref.Kind != "" {
		return ref.Kind
	}
	return Classify(ref.ContentType, ref.Name)
}
