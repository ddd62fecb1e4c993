package ingest_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcanavci/lawjobs/internal/ingest"
	"github.com/mcanavci/lawjobs/internal/model"
	"github.com/mcanavci/lawjobs/internal/store"
)

func newTestPipeline(t *testing.T) (*ingest.Pipeline, *store.File) {
	t.Helper()
	dir := t.TempDir()
	st := store.NewFile(
		filepath.Join(dir, "jobs.json"),
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "applications.json"),
	)
	return ingest.NewPipeline(st), st
}

func validRaw() ingest.RawRecord {
	return ingest.RawRecord{
		Title:        "Kıdemli Avukat",
		Company:      "Yılmaz Hukuk",
		Location:     "İstanbul",
		Description:  strings.Repeat("x", 60),
		Requirements: []string{"Baro kaydı"},
		Type:         "FULL_TIME",
	}
}

// ── Manual origin ──────────────────────────────────────────────────────────

func TestIngest_ManualStampsEmployerAndMetadata(t *testing.T) {
	p, _ := newTestPipeline(t)

	res, err := p.Ingest(context.Background(), []ingest.RawRecord{validRaw()}, ingest.ManualOrigin("emp-1"))
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Accepted) != 1 {
		t.Fatalf("expected 1 accepted, got %d", len(res.Accepted))
	}

	job := res.Accepted[0]
	if job.EmployerID != "emp-1" {
		t.Errorf("employerId = %q, want emp-1", job.EmployerID)
	}
	if job.Source != model.SourceDirect {
		t.Errorf("source = %q, want %q", job.Source, model.SourceDirect)
	}
	if !strings.HasPrefix(job.ID, "job_") {
		t.Errorf("id = %q, want job_ prefix", job.ID)
	}
	if job.CreatedAt.IsZero() {
		t.Error("createdAt should be set at ingestion")
	}
}

func TestIngest_ManualSkipsDedup(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := p.Ingest(ctx, []ingest.RawRecord{validRaw()}, ingest.ManualOrigin("emp-1"))
		if err != nil {
			t.Fatalf("Ingest error: %v", err)
		}
		if len(res.Accepted) != 1 || res.SkippedDuplicates != 0 {
			t.Fatalf("manual run %d: accepted=%d skipped=%d, want 1/0",
				i, len(res.Accepted), res.SkippedDuplicates)
		}
	}

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs error: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("expected 2 stored jobs (no dedup on manual), got %d", len(jobs))
	}
}

// ── Bulk origin dedup ──────────────────────────────────────────────────────

func TestIngest_BulkDedupIsIdempotent(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	first, err := p.Ingest(ctx, []ingest.RawRecord{validRaw()}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("first Ingest error: %v", err)
	}
	if len(first.Accepted) != 1 || first.SkippedDuplicates != 0 {
		t.Fatalf("first run: accepted=%d skipped=%d", len(first.Accepted), first.SkippedDuplicates)
	}

	second, err := p.Ingest(ctx, []ingest.RawRecord{validRaw()}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("second Ingest error: %v", err)
	}
	if len(second.Accepted) != 0 {
		t.Errorf("second run accepted %d records, want 0", len(second.Accepted))
	}
	if second.SkippedDuplicates != 1 {
		t.Errorf("second run skippedDuplicates = %d, want 1", second.SkippedDuplicates)
	}

	jobs, _ := st.ListJobs(ctx)
	if len(jobs) != 1 {
		t.Errorf("expected exactly 1 stored job, got %d", len(jobs))
	}
}

func TestIngest_DedupIsCaseInsensitive(t *testing.T) {
	p, _ := newTestPipeline(t)
	ctx := context.Background()

	if _, err := p.Ingest(ctx, []ingest.RawRecord{validRaw()}, ingest.BulkOrigin()); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	// ToLower is the safe way to build a case variant here: dotless ı is
	// already lowercase, while ToUpper would map it to ASCII I, which does
	// not fold back to ı.
	recased := validRaw()
	recased.Title = strings.ToLower(recased.Title)
	recased.Company = strings.ToLower(recased.Company)

	res, err := p.Ingest(ctx, []ingest.RawRecord{recased}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if res.SkippedDuplicates != 1 {
		t.Errorf("skippedDuplicates = %d, want 1 (case-insensitive match)", res.SkippedDuplicates)
	}
}

func TestIngest_DedupDistinguishesDotlessI(t *testing.T) {
	p, _ := newTestPipeline(t)
	ctx := context.Background()

	if _, err := p.Ingest(ctx, []ingest.RawRecord{validRaw()}, ingest.BulkOrigin()); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	// "Kıdemli" under ToUpper becomes "KIDEMLI" with an ASCII I; simple
	// case folding never maps I back to ı, so this is a different title.
	shouting := validRaw()
	shouting.Title = strings.ToUpper(shouting.Title)
	shouting.Company = strings.ToUpper(shouting.Company)

	res, err := p.Ingest(ctx, []ingest.RawRecord{shouting}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Accepted) != 1 || res.SkippedDuplicates != 0 {
		t.Errorf("accepted=%d skipped=%d, want the recased record treated as distinct",
			len(res.Accepted), res.SkippedDuplicates)
	}
}

// ── Scrape origin ──────────────────────────────────────────────────────────

func TestIngest_ScrapeOriginTagsSource(t *testing.T) {
	p, _ := newTestPipeline(t)

	raw := validRaw()
	raw.SourceURL = "https://www.kariyer.net/is-ilani/12345"

	res, err := p.Ingest(context.Background(), []ingest.RawRecord{raw}, ingest.ScrapeOrigin(model.SourceKariyerNet))
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Accepted) != 1 {
		t.Fatalf("expected 1 accepted, got %d", len(res.Accepted))
	}

	job := res.Accepted[0]
	if job.Source != model.SourceKariyerNet {
		t.Errorf("source = %q, want %q", job.Source, model.SourceKariyerNet)
	}
	if !strings.HasPrefix(job.ID, "kn_") {
		t.Errorf("id = %q, want kn_ prefix", job.ID)
	}
	if job.SourceURL != raw.SourceURL {
		t.Errorf("sourceUrl = %q, want %q", job.SourceURL, raw.SourceURL)
	}
}

// ── Validation ─────────────────────────────────────────────────────────────

func TestIngest_DescriptionLengthBoundary(t *testing.T) {
	p, _ := newTestPipeline(t)
	ctx := context.Background()

	tooShort := validRaw()
	tooShort.Description = strings.Repeat("x", 49)
	res, err := p.Ingest(ctx, []ingest.RawRecord{tooShort}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Rejected) != 1 || len(res.Accepted) != 0 {
		t.Errorf("49-char description: accepted=%d rejected=%d, want 0/1",
			len(res.Accepted), len(res.Rejected))
	}
	if len(res.Rejected) == 1 {
		if _, ok := res.Rejected[0].Fields["description"]; !ok {
			t.Errorf("rejection should name the description field, got %v", res.Rejected[0].Fields)
		}
	}

	exact := validRaw()
	exact.Description = strings.Repeat("x", 50)
	res, err = p.Ingest(ctx, []ingest.RawRecord{exact}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Accepted) != 1 {
		t.Errorf("50-char description should be accepted, rejected=%v", res.Rejected)
	}
}

func TestIngest_RejectionIsPerRecord(t *testing.T) {
	p, _ := newTestPipeline(t)

	bad := validRaw()
	bad.Title = "abc" // below the 5-char minimum

	res, err := p.Ingest(context.Background(), []ingest.RawRecord{validRaw(), bad}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Accepted) != 1 {
		t.Errorf("accepted = %d, want 1 (batch is not all-or-nothing)", len(res.Accepted))
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Index != 1 {
		t.Errorf("rejected = %+v, want single rejection at index 1", res.Rejected)
	}
}

func TestIngest_UnknownTypeRejected(t *testing.T) {
	p, _ := newTestPipeline(t)

	raw := validRaw()
	raw.Type = "FREELANCE"

	res, err := p.Ingest(context.Background(), []ingest.RawRecord{raw}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Rejected) != 1 {
		t.Fatalf("expected rejection for unknown type, got %+v", res)
	}
	if _, ok := res.Rejected[0].Fields["type"]; !ok {
		t.Errorf("rejection should name the type field, got %v", res.Rejected[0].Fields)
	}
}

// ── Bulk upload scenario ───────────────────────────────────────────────────

func TestIngest_BulkRowWithEmptyDescriptionExcluded(t *testing.T) {
	// The parser keeps a row whose description cell is empty (the column
	// count matches); field validation then rejects it for length.
	p, _ := newTestPipeline(t)

	text := "title\tcompany\tlocation\tdescription\ttype\n" +
		"Stajyer Avukat\tDemir & Partners\tİstanbul\t\tINTERNSHIP\n" +
		"Kıdemli Avukat\tYılmaz Hukuk\tAnkara\t" + strings.Repeat("a", 60) + "\tFULL_TIME"

	raws := ingest.ParseTSV(text)
	if len(raws) != 2 {
		t.Fatalf("parser should keep both rows, got %d", len(raws))
	}

	res, err := p.Ingest(context.Background(), raws, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(res.Accepted) != 1 {
		t.Errorf("accepted = %d, want 1 (empty-description row excluded)", len(res.Accepted))
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Index != 0 {
		t.Errorf("rejected = %+v, want rejection of the first row", res.Rejected)
	}
}

// ── Round trip ─────────────────────────────────────────────────────────────

func TestIngest_RoundTripThroughFileStore(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	raw := validRaw()
	res, err := p.Ingest(ctx, []ingest.RawRecord{raw}, ingest.BulkOrigin())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 stored job, got %d", len(jobs))
	}

	got := jobs[0]
	want := res.Accepted[0]
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Error("stored job must carry a generated id and createdAt")
	}
	if got.ID != want.ID ||
		got.Title != raw.Title ||
		got.Company != raw.Company ||
		got.Location != raw.Location ||
		got.Description != raw.Description ||
		string(got.Type) != raw.Type {
		t.Errorf("stored job differs from submission:\n got %+v\nwant %+v", got, want)
	}
}
