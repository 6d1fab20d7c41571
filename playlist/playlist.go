// Package playlist holds the semantic view of an HLS media playlist that
// the rewrite pipeline operates on, and a minimal parser/serializer for
// it. No third-party HLS library appears anywhere in the retrieved
// reference pack, so parsing is hand-rolled here (see DESIGN.md); it
// implements only the fragment of the M3U8 grammar the pipeline needs:
// locating and replacing each segment URI line while passing every other
// line through byte-for-byte.
package playlist

import "strings"

// MediaSegment is one segment entry in a playlist: the tag lines that
// preceded it (EXTINF, etc., kept verbatim) and its URI.
type MediaSegment struct {
	Tags []string
	URI  string
}

// MediaPlaylist is the parsed view of an HLS media playlist: the header
// lines preceding the first segment (kept verbatim, including
// #EXT-X-TARGETDURATION and friends) and the ordered segments.
type MediaPlaylist struct {
	Header   []string
	Segments []MediaSegment
	Trailer  []string
}

// Rewriter is the common shape every pipeline stage implements. rewrite
// receives the node group bound to the request (the JWT's ng claim) and
// returns a playlist with segment URIs possibly changed; it must not
// fail outright — internal errors degrade to leaving affected segments
// unchanged (see CombinedRewriter).
type Rewriter interface {
	Rewrite(p MediaPlaylist, nodeGroup string) MediaPlaylist
}

const endList = "#EXT-X-ENDLIST"

// Parse reads body as an HLS media playlist. It returns an error if body
// isn't recognizably an HLS playlist (first non-blank line isn't
// #EXTM3U), so callers can fall back to passing the raw body through
// unchanged for non-playlist responses.
func Parse(body string) (MediaPlaylist, error) {
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || strings.TrimSpace(lines[i]) != "#EXTM3U" {
		return MediaPlaylist{}, errNotAPlaylist
	}
	i++ // consume the #EXTM3U line itself; String() re-emits it unconditionally

	var p MediaPlaylist
	pendingTags := []string{}
	inSegments := false

	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimRight(line, "\r")
		stripped := strings.TrimSpace(trimmed)

		switch {
		case stripped == "":
			if inSegments {
				pendingTags = append(pendingTags, trimmed)
			} else {
				p.Header = append(p.Header, trimmed)
			}
		case strings.HasPrefix(stripped, "#EXTINF"):
			inSegments = true
			pendingTags = append(pendingTags, trimmed)
		case strings.HasPrefix(stripped, "#"):
			if !inSegments {
				p.Header = append(p.Header, trimmed)
			} else if stripped == endList {
				p.Trailer = append(p.Trailer, trimmed)
			} else {
				pendingTags = append(pendingTags, trimmed)
			}
		default:
			inSegments = true
			p.Segments = append(p.Segments, MediaSegment{
				Tags: pendingTags,
				URI:  trimmed,
			})
			pendingTags = nil
		}
	}

	if len(pendingTags) > 0 {
		p.Trailer = append(pendingTags, p.Trailer...)
	}

	return p, nil
}

// String serializes the playlist back to its M3U8 text form. Round
// tripping an unmodified Parse result of LF-terminated input that begins
// with #EXTM3U reproduces the input byte-for-byte modulo a trailing
// newline. Carriage returns at line ends and blank lines before #EXTM3U
// are not preserved, and tag lines found after #EXT-X-ENDLIST are
// emitted before it.
func (p MediaPlaylist) String() string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")

	for _, line := range p.Header {
		b.WriteString(line)
		b.WriteString("\n")
	}

	for _, seg := range p.Segments {
		for _, tag := range seg.Tags {
			b.WriteString(tag)
			b.WriteString("\n")
		}
		b.WriteString(seg.URI)
		b.WriteString("\n")
	}

	for _, line := range p.Trailer {
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

var errNotAPlaylist = &parseError{msg: "body is not an HLS media playlist (missing #EXTM3U)"}
