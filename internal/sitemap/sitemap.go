// Package sitemap periodically rebuilds the sitemap.xml document from the
// job store so crawlers pick up new postings.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mcanavci/lawjobs/internal/store"
)

// Generator renders the sitemap for every stored job plus the static pages.
type Generator struct {
	store   store.Store
	siteURL string
	outPath string
}

// NewGenerator constructs a Generator writing to outPath.
func NewGenerator(st store.Store, siteURL, outPath string) *Generator {
	return &Generator{store: st, siteURL: siteURL, outPath: outPath}
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// Rebuild lists all jobs and rewrites the sitemap file atomically.
func (g *Generator) Rebuild(ctx context.Context) error {
	jobs, err := g.store.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{
			{Loc: g.siteURL, LastMod: now, ChangeFreq: "daily", Priority: 1},
			{Loc: g.siteURL + "/jobs", LastMod: now, ChangeFreq: "daily", Priority: 0.8},
		},
	}
	for _, job := range jobs {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        fmt.Sprintf("%s/jobs/%s", g.siteURL, job.ID),
			LastMod:    job.CreatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   0.5,
		})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	if dir := filepath.Dir(g.outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := g.outPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, g.outPath); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
