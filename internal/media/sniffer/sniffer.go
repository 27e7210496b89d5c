package sniffer

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
	TypeWEBP MediaType = "webp"
	TypeAVIF MediaType = "avif"
	TypeSVG  MediaType = "svg"
)

const (
	FallbackMIME = "application/octet-stream"
	HeadSize     = 512
)

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
}

type signature struct {
	result     Result
	extensions []string
	match      func(head []byte) bool
}

// Order matters: SVG is text and goes last so binary magic wins.
var signatures = []signature{
	{Result{TypeJPEG, "image/jpeg"}, []string{".jpg", ".jpeg"}, prefix([]byte{0xff, 0xd8, 0xff})},
	{Result{TypePNG, "image/png"}, []string{".png"}, prefix([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})},
	{Result{TypeGIF, "image/gif"}, []string{".gif"}, anyPrefix([]byte("GIF87a"), []byte("GIF89a"))},
	{Result{TypeWEBP, "image/webp"}, []string{".webp"}, isWEBP},
	{Result{TypeAVIF, "image/avif"}, []string{".avif"}, isAVIF},
	{Result{TypeSVG, "image/svg+xml"}, []string{".svg"}, isSVG},
}

var byExtension = func() map[string]Result {
	m := make(map[string]Result)
	for _, sig := range signatures {
		for _, ext := range sig.extensions {
			m[ext] = sig.result
		}
	}
	return m
}()

// DetectHead looks at no more than HeadSize bytes.
func DetectHead(head []byte) (Result, error) {
	if len(head) > HeadSize {
		head = head[:HeadSize]
	}
	for _, sig := range signatures {
		if sig.match(head) {
			return sig.result, nil
		}
	}
	return Result{}, ErrUnknownType
}

// FromExtension maps a stored file name to its content type. Files are
// served by name without re-reading their header.
func FromExtension(name string) Result {
	if result, ok := byExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return result
	}
	return Result{MIME: FallbackMIME}
}

func prefix(magic []byte) func([]byte) bool {
	return func(head []byte) bool { return bytes.HasPrefix(head, magic) }
}

func anyPrefix(magics ...[]byte) func([]byte) bool {
	return func(head []byte) bool {
		for _, m := range magics {
			if bytes.HasPrefix(head, m) {
				return true
			}
		}
		return false
	}
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 && bytes.HasPrefix(head, []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP"))
}

func isAVIF(head []byte) bool {
	return len(head) >= 12 && bytes.Equal(head[4:8], []byte("ftyp")) && bytes.Contains(head[8:], []byte("avif"))
}

func isSVG(head []byte) bool {
	trimmed := bytes.TrimSpace(head)
	if bytes.HasPrefix(trimmed, []byte("<svg")) {
		return true
	}
	return bytes.HasPrefix(trimmed, []byte("<?xml")) && bytes.Contains(trimmed, []byte("<svg"))
}
