package store

import (
	"context"
	"time"

	"github.com/matzehuels/jsonlens/pkg/observability"
)

// instrumented reports every read and write to the registered store hooks.
type instrumented struct {
	Document
	backend string
}

// Instrument wraps d so that its traffic reaches observability.Store().
func Instrument(d Document, backend string) Document {
	if _, ok := d.(*instrumented); ok {
		return d
	}
	return &instrumented{Document: d, backend: backend}
}

// Unwrap returns the backend behind an instrumented document.
func Unwrap(d Document) Document {
	if i, ok := d.(*instrumented); ok {
		return i.Document
	}
	return d
}

func (i *instrumented) Text(ctx context.Context) (string, error) {
	start := time.Now()
	text, err := i.Document.Text(ctx)
	observability.Store().OnRead(ctx, i.backend, len(text), time.Since(start), err)
	return text, err
}

func (i *instrumented) SetContents(ctx context.Context, text string) error {
	start := time.Now()
	err := i.Document.SetContents(ctx, text)
	observability.Store().OnWrite(ctx, i.backend, len(text), time.Since(start), err)
	return err
}
