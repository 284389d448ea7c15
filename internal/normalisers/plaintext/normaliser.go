// Package plaintext decodes raw storage bytes into domain documents.
//
// Decoding tries UTF-8 first and falls back to a single-byte Latin-1
// read, which maps every byte to the code point of the same value.
// The fallback accepts any byte sequence, so decoding never fails and
// ingestion never stops on a badly encoded document.
package plaintext

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// Normalise decodes raw bytes into a document for the given source key.
func Normalise(key string, raw []byte) domain.Document {
	return domain.Document{
		SourceKey: key,
		Content:   Decode(raw),
	}
}

// Decode returns raw as a string, as UTF-8 when valid and as Latin-1
// otherwise.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return decodeLatin1(raw)
}

func decodeLatin1(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}
