package quotations

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/protorq/protorq/internal/platform/httpx"
	"github.com/protorq/protorq/web"
)

// PDFClient exposes the subset of the report client used by the renderer.
type PDFClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Renderer turns a Document into PDF bytes via html/template + PDF conversion.
// It holds no per-request state and is safe for concurrent use.
type Renderer struct {
	tpl    *template.Template
	client PDFClient
	now    func() time.Time
}

// NewRenderer parses the quotation template and wires the PDF client.
func NewRenderer(client PDFClient) (*Renderer, error) {
	if client == nil {
		return nil, fmt.Errorf("quotation renderer: pdf client required")
	}
	tpl, err := template.New("quotation_pdf.html").ParseFS(web.Templates, "templates/reports/quotation_pdf.html")
	if err != nil {
		return nil, fmt.Errorf("quotation renderer: parse template: %w", err)
	}
	return &Renderer{tpl: tpl, client: client, now: time.Now}, nil
}

// HTML lays out and executes the template without converting it.
func (r *Renderer) HTML(doc *Document, totals Totals, to Recipient) (string, error) {
	if r == nil || r.tpl == nil {
		return "", fmt.Errorf("%w: renderer not initialised", httpx.ErrRender)
	}
	if doc == nil {
		return "", fmt.Errorf("%w: nil document", httpx.ErrRender)
	}
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, BuildLayout(doc, totals, to, r.now())); err != nil {
		return "", fmt.Errorf("%w: execute template: %v", httpx.ErrRender, err)
	}
	return buf.String(), nil
}

// Render produces the final PDF. Any failure is reported as httpx.ErrRender
// and no bytes are returned.
func (r *Renderer) Render(ctx context.Context, doc *Document, totals Totals, to Recipient) ([]byte, error) {
	html, err := r.HTML(doc, totals, to)
	if err != nil {
		return nil, err
	}
	pdf, err := r.client.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrRender, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty document", httpx.ErrRender)
	}
	return pdf, nil
}
