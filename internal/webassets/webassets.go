// Package webassets renders the dashboard pages and static bundle into the
// web root. The pages are complete documents written at sync time; their
// JavaScript polls the JSON APIs for live data.
package webassets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/a-h/templ"

	"github.com/twinspect/twinspect/internal/config"
)

//go:embed static
var staticFS embed.FS

// page is one renderable dashboard page.
type page struct {
	Slug  string // file name without .html, also the nav anchor
	Title string
	Nav   string
	Body  templ.Component
}

func pages() []page {
	return []page{
		{Slug: "index", Title: "Overview", Nav: "Overview", Body: indexBody()},
		{Slug: "dashboard", Title: "Dashboard", Nav: "Dashboard", Body: dashboardBody()},
		{Slug: "devices", Title: "Devices", Nav: "Devices", Body: devicesBody()},
		{Slug: "analytics", Title: "Analytics", Nav: "Analytics", Body: analyticsBody()},
	}
}

// AssetVersion returns a short content hash of the embedded bundle, stamped
// into asset URLs for cache busting.
func AssetVersion() string {
	h := sha256.New()

	var names []string
	fs.WalkDir(staticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	sort.Strings(names)

	for _, name := range names {
		data, err := staticFS.ReadFile(name)
		if err != nil {
			continue
		}
		h.Write([]byte(name))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))[:8]
}

// layout wraps a page body in the shared document chrome.
func layout(p page, version string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | twinspect</title>
<link rel="stylesheet" href="/static/app.css?v=%s">
</head>
<body data-page="%s">
<header class="topbar">
<span class="brand">twinspect</span>
<nav>
`, p.Title, version, p.Slug); err != nil {
			return err
		}

		for _, n := range pages() {
			href := "/" + n.Slug
			if n.Slug == "index" {
				href = "/"
			}
			class := ""
			if n.Slug == p.Slug {
				class = ` class="active"`
			}
			if _, err := fmt.Fprintf(w, "<a href=%q%s>%s</a>\n", href, class, n.Nav); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</nav>
<span id="conn-status" class="conn">connecting</span>
</header>
<main>
`); err != nil {
			return err
		}

		if err := p.Body.Render(ctx, w); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `</main>
<footer><span>twinspect</span><span>assets v%s</span></footer>
<script src="/static/app.js?v=%s"></script>
</body>
</html>
`, version, version)
		return err
	})
}

// Sync renders every page and copies the static bundle into the web root.
// It overwrites whatever is there; the web root is generated output.
func Sync(paths config.Paths) error {
	version := AssetVersion()

	entries, err := fs.ReadDir(staticFS, "static")
	if err != nil {
		return fmt.Errorf("read embedded bundle: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := staticFS.ReadFile("static/" + e.Name())
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", e.Name(), err)
		}
		dst := filepath.Join(paths.WebStaticDir, e.Name())
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
	}

	for _, p := range pages() {
		var buf bytes.Buffer
		if err := layout(p, version).Render(context.Background(), &buf); err != nil {
			return fmt.Errorf("render %s: %w", p.Slug, err)
		}
		dst := filepath.Join(paths.WebStaticDir, p.Slug+".html")
		if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
	}

	slog.Info("web assets synced",
		"dir", paths.WebStaticDir,
		"pages", len(pages()),
		"version", version,
	)
	return nil
}
