package readability_extractor

import (
	"io"
	"sync/atomic"

	"golang.org/x/net/html"

	"github.com/mrmps/SMRY-sub004/pkg/metrics"
)

// parsedDocument owns one parsed DOM for the duration of an extraction.
type parsedDocument struct {
	root     *html.Node
	tracker  *atomic.Int64
	released atomic.Bool
}

func parseDocument(r io.Reader, tracker *atomic.Int64) (*parsedDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	tracker.Add(1)
	metrics.ParserDocumentsLive.Inc()
	return &parsedDocument{root: root, tracker: tracker}, nil
}

// Release drops the DOM. Calls after the first are no-ops.
func (d *parsedDocument) Release() {
	if !d.released.CompareAndSwap(false, true) {
		return
	}
	d.root = nil
	d.tracker.Add(-1)
	metrics.ParserDocumentsLive.Dec()
}
