// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
	"unicode"
)

const fallbackExtension = "dat"

// CleanFileType normalizes a file-type hint: surrounding spaces and every
// leading dot removed, lower-cased. "" means no usable hint.
func CleanFileType(hint string) string {
	h := strings.TrimLeftFunc(strings.ToLower(hint), func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
	return strings.TrimRightFunc(h, unicode.IsSpace)
}

// ResolveFilename picks the stored file name: the content-disposition
// filename, else download_{unix}.{hint}, else download_{unix}.dat.
func ResolveFilename(contentDisposition, hint string, now time.Time) string {
	if name := dispositionFilename(contentDisposition); name != "" {
		return name
	}
	ext := sanitize(CleanFileType(hint))
	if strings.Trim(ext, "._") == "" {
		ext = fallbackExtension
	}
	return fmt.Sprintf("download_%d.%s", now.Unix(), ext)
}

func dispositionFilename(cd string) string {
	if strings.TrimSpace(cd) == "" {
		return ""
	}
	var raw string
	if _, params, err := mime.ParseMediaType(cd); err == nil {
		raw = params["filename"]
	}
	if raw == "" {
		parts := strings.SplitN(cd, "filename=", 2)
		if len(parts) < 2 {
			return ""
		}
		raw = parts[1]
		if i := strings.IndexByte(raw, ';'); i >= 0 {
			raw = raw[:i]
		}
		raw = strings.Trim(strings.TrimSpace(raw), `"'`)
	}

	name := path.Base(strings.ReplaceAll(raw, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return sanitize(name)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
