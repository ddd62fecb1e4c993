package ingest_test

import (
	"reflect"
	"testing"

	"github.com/mcanavci/lawjobs/internal/ingest"
)

const header = "title\tcompany\tlocation\tdescription\trequirements\ttype\tsalary"

// ── Basic parsing ──────────────────────────────────────────────────────────

func TestParseTSV_SingleRow(t *testing.T) {
	text := header + "\n" +
		"Kıdemli Avukat\tYılmaz Hukuk\tİstanbul\tŞirketler hukuku alanında deneyim şart.\tBaro kaydı; 5 yıl deneyim\tfull_time\t60000 TL"

	got := ingest.ParseTSV(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	rec := got[0]
	if rec.Title != "Kıdemli Avukat" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Company != "Yılmaz Hukuk" {
		t.Errorf("company = %q", rec.Company)
	}
	if rec.Type != "FULL_TIME" {
		t.Errorf("type should be upper-cased, got %q", rec.Type)
	}
	if rec.Salary != "60000 TL" {
		t.Errorf("salary = %q", rec.Salary)
	}
	wantReqs := []string{"Baro kaydı", "5 yıl deneyim"}
	if !reflect.DeepEqual(rec.Requirements, wantReqs) {
		t.Errorf("requirements = %v, want %v", rec.Requirements, wantReqs)
	}
}

func TestParseTSV_HeaderCaseInsensitive(t *testing.T) {
	text := "TITLE\tCompany\tLocation\tDescription\tType\n" +
		"Avukat Aranıyor\tDemir Hukuk\tAnkara\tUzun bir iş tanımı metni.\tPART_TIME"

	got := ingest.ParseTSV(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Title != "Avukat Aranıyor" || got[0].Type != "PART_TIME" {
		t.Errorf("unexpected record: %+v", got[0])
	}
}

func TestParseTSV_CRLFLineEndings(t *testing.T) {
	text := header + "\r\n" +
		"Hukuk Müşaviri\tAcme\tİzmir\tAçıklama metni burada yer alır.\t\tCONTRACT\t\r\n"

	got := ingest.ParseTSV(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Title != "Hukuk Müşaviri" {
		t.Errorf("title = %q", got[0].Title)
	}
}

// ── Skipped rows ───────────────────────────────────────────────────────────

func TestParseTSV_SkipsColumnCountMismatch(t *testing.T) {
	text := header + "\n" +
		"Short Row\tOnly Two Columns\n" +
		"Valid Title\tCompany X\tCity\tA description of reasonable length.\t\tFULL_TIME\t"

	got := ingest.ParseTSV(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 record (mismatched row skipped), got %d", len(got))
	}
	if got[0].Title != "Valid Title" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestParseTSV_SkipsEmptyFirstCell(t *testing.T) {
	text := header + "\n" +
		"\tCompany X\tCity\tA description.\t\tFULL_TIME\t"

	got := ingest.ParseTSV(text)
	if len(got) != 0 {
		t.Fatalf("expected 0 records, got %d", len(got))
	}
}

func TestParseTSV_EmptyInput(t *testing.T) {
	if got := ingest.ParseTSV(""); len(got) != 0 {
		t.Fatalf("expected 0 records for empty input, got %d", len(got))
	}
	if got := ingest.ParseTSV(header); len(got) != 0 {
		t.Fatalf("expected 0 records for header-only input, got %d", len(got))
	}
}

// ── Field handling ─────────────────────────────────────────────────────────

func TestParseTSV_EmptyDescriptionCellKept(t *testing.T) {
	// A row whose description cell is empty still has a matching column
	// count — the parser keeps it and field validation rejects it later.
	text := "title\tcompany\tlocation\tdescription\ttype\n" +
		"Stajyer Avukat\tDemir & Partners\tİstanbul\t\tINTERNSHIP"

	got := ingest.ParseTSV(text)
	if len(got) != 1 {
		t.Fatalf("expected the row to be parsed, got %d records", len(got))
	}
	if got[0].Description != "" {
		t.Errorf("description = %q, want empty", got[0].Description)
	}
}

func TestParseTSV_RequirementsDiscardsEmptyParts(t *testing.T) {
	text := "title\trequirements\n" +
		"Some Title\t; a ;; b ; "

	got := ingest.ParseTSV(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got[0].Requirements, want) {
		t.Errorf("requirements = %v, want %v", got[0].Requirements, want)
	}
}

func TestParseTSV_UnrecognizedTypePassedThrough(t *testing.T) {
	text := "title\ttype\n" +
		"Some Title\tfreelance"

	got := ingest.ParseTSV(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Type != "FREELANCE" {
		t.Errorf("type = %q, want FREELANCE passed through for later validation", got[0].Type)
	}
}
