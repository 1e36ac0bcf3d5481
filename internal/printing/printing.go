// Package printing turns rendered notices into printable HTML and PDF.
package printing

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const letterStyle = `body{font-family:Georgia,"Times New Roman",serif;font-size:12pt;line-height:1.45;color:#111;max-width:7in;margin:0 auto;padding:0.4in 0;}` +
	`h3{font-size:13pt;margin:1.4em 0 0.5em;}h4{font-size:12pt;margin:1em 0 0.4em;}` +
	`ul,ol{padding-left:1.6em;}li{margin:0.2em 0;}` +
	`@media print{@page{size:letter;margin:0.75in;}body{padding:0;}}`

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts a Markdown notice into a standalone HTML document.
func HTML(md, title string) (string, error) {
	var body strings.Builder
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("printing: markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + letterStyle + "</style></head><body>" + body.String() + "</body></html>", nil
}

// Renderer prints HTML documents to PDF through headless Chrome.
type Renderer struct {
	chromePath string
	timeout    time.Duration
}

// NewRenderer uses chromePath when set, otherwise the first known Chrome
// binary on the machine, otherwise chromedp's own lookup.
func NewRenderer(chromePath string) *Renderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &Renderer{chromePath: chromePath, timeout: 30 * time.Second}
}

// PDF renders the Markdown notice to a US letter PDF.
func (r *Renderer) PDF(ctx context.Context, md, title string) ([]byte, error) {
	doc, err := HTML(md, title)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(doc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.75).
				WithMarginBottom(0.75).
				WithMarginLeft(0.75).
				WithMarginRight(0.75).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, fmt.Errorf("printing: chrome pdf: %w", err)
	}
	return pdf, nil
}

// WriteHTML saves the notice as HTML under dir and returns the file path.
func WriteHTML(dir, name, md, title string) (string, error) {
	doc, err := HTML(md, title)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("printing: ensure print dir: %w", err)
	}
	path := filepath.Join(dir, name+".html")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("printing: write %s: %w", path, err)
	}
	return path, nil
}

func detectChromePath() string {
	for _, p := range []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
