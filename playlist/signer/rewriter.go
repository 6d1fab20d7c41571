package signer

import (
	"net/url"
	"time"

	"edgerelay/logger"
	"edgerelay/playlist"
)

// SegmentRewriter is the playlist.Rewriter stage that signs every
// segment's absolute URL with a single expiry timestamp computed once
// per playlist. It must run after the load distributor so the signature
// covers the final, edge-rewritten path — the pipeline wiring at the
// router is what enforces that ordering, not this type.
type SegmentRewriter struct {
	signer   UrlSigner
	duration time.Duration
	log      logger.Logger
	now      func() time.Time
}

// NewSegmentRewriter builds a SegmentRewriter signing with key and a
// fixed validity window.
func NewSegmentRewriter(key []byte, duration time.Duration, log logger.Logger) SegmentRewriter {
	return SegmentRewriter{
		signer:   New(key),
		duration: duration,
		log:      log,
		now:      time.Now,
	}
}

func (r SegmentRewriter) Rewrite(p playlist.MediaPlaylist, _ string) playlist.MediaPlaylist {
	expiry := r.now().Add(r.duration).Unix()
	if expiry < 0 {
		r.log.Error("segment signing expiry computed before the unix epoch, leaving playlist unsigned")
		return p
	}

	for i := range p.Segments {
		u, err := url.Parse(p.Segments[i].URI)
		if err != nil {
			r.log.Warnf("segment signing: leaving unparseable uri unchanged: %v", err)
			continue
		}
		if !u.IsAbs() {
			r.log.Warnf("segment signing: leaving non-absolute uri %q unchanged", p.Segments[i].URI)
			continue
		}

		p.Segments[i].URI = r.signer.Sign(u, expiry).String()
	}

	return p
}
