package export

import (
	"strings"

	"github.com/gojp/kana"
	"github.com/kennygrant/sanitize"
	"github.com/user-none/vgmjuice/vgm"
)

// DefaultName is the output base name when no usable tag exists.
const DefaultName = "vgm"

// Title returns the track title from tags, preferring English and
// romanizing a Japanese-only title.
func Title(tags vgm.GD3) string {
	if s := strings.TrimSpace(tags.TrackEN); s != "" {
		return s
	}
	if s := strings.TrimSpace(tags.TrackJP); s != "" {
		return kana.KanaToRomaji(s)
	}
	return ""
}

// BaseName builds a file name safe base name from the track title.
func BaseName(tags vgm.GD3) string {
	s := sanitize.BaseName(Title(tags))
	s = strings.Trim(s, "-.")
	if s == "" {
		return DefaultName
	}
	return s
}
