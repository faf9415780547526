// Package document loads PDF bytes from pluggable sources and probes
// them for page geometry. A loaded Document owns a temp file mirror of
// its bytes, because the rasterizer and the probe both work on paths.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"inkmark/internal/logger"
)

// PageSize is a page's media box size in PDF points.
type PageSize struct {
	W float64
	H float64
}

// Document is a loaded PDF plus its probed geometry. Data is the
// authoritative byte form; after a successful export it is replaced
// in place so that further exports layer on the annotated result.
type Document struct {
	Name      string
	Data      []byte
	PageCount int
	PageSizes []PageSize // indexed 0-based; page N is PageSizes[N-1]

	tmpPath string
}

// Load opens the source, probes the bytes as a PDF and returns the
// document. Probe failure is blocking: no document is returned.
func Load(ctx context.Context, src Source) (*Document, error) {
	data, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Name(), err)
	}

	doc := &Document{Name: src.Name(), Data: data}
	if err := doc.sync(); err != nil {
		doc.Close()
		return nil, err
	}
	logger.Infof("document: loaded %s (%d pages, %d bytes)", doc.Name, doc.PageCount, len(doc.Data))
	return doc, nil
}

// sync writes Data to the temp mirror and re-probes page geometry.
func (d *Document) sync() error {
	if d.tmpPath == "" {
		d.tmpPath = filepath.Join(os.TempDir(), "inkmark-"+uuid.NewString()+".pdf")
	}
	if err := os.WriteFile(d.tmpPath, d.Data, 0o600); err != nil {
		return fmt.Errorf("write temp mirror: %w", err)
	}

	count, err := api.PageCountFile(d.tmpPath)
	if err != nil {
		return fmt.Errorf("probe %s: %w", d.Name, err)
	}
	dims, err := api.PageDimsFile(d.tmpPath)
	if err != nil {
		return fmt.Errorf("probe page sizes of %s: %w", d.Name, err)
	}

	sizes := make([]PageSize, 0, len(dims))
	for _, dim := range dims {
		sizes = append(sizes, PageSize{W: dim.Width, H: dim.Height})
	}
	if count != len(sizes) {
		return fmt.Errorf("probe %s: page count %d does not match %d page dims", d.Name, count, len(sizes))
	}
	d.PageCount = count
	d.PageSizes = sizes
	return nil
}

// Path returns the on-disk mirror of the document bytes.
func (d *Document) Path() string { return d.tmpPath }

// Replace swaps the document bytes, re-probing the new content. On
// probe failure the old bytes stay in effect.
func (d *Document) Replace(data []byte) error {
	old := d.Data
	d.Data = data
	if err := d.sync(); err != nil {
		d.Data = old
		if restoreErr := d.sync(); restoreErr != nil {
			logger.Errorf("document: restoring previous bytes after failed replace: %v", restoreErr)
		}
		return err
	}
	return nil
}

// Close removes the temp mirror.
func (d *Document) Close() {
	if d.tmpPath != "" {
		if err := os.Remove(d.tmpPath); err != nil && !os.IsNotExist(err) {
			logger.Warnf("document: removing temp mirror: %v", err)
		}
		d.tmpPath = ""
	}
}
