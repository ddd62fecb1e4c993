// Package ingest normalizes raw job submissions from all three origins
// (manual form, bulk upload, scrape import) into stored job records.
//
// Every record gets a generated id and creation timestamp. Bulk and scrape
// origins skip records whose case-insensitive (title, company) pair already
// exists in the store; manual submissions by an authenticated employer are
// always inserted.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/mcanavci/lawjobs/internal/model"
	"github.com/mcanavci/lawjobs/internal/store"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RawRecord is one unprocessed submission. Validation tags mirror the
// posting form's minimum lengths.
type RawRecord struct {
	Title        string   `json:"title" validate:"required,min=5"`
	Company      string   `json:"company" validate:"required,min=2"`
	Location     string   `json:"location" validate:"required,min=2"`
	Description  string   `json:"description" validate:"required,min=50"`
	Requirements []string `json:"requirements"`
	Type         string   `json:"type" validate:"required,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP"`
	Salary       string   `json:"salary,omitempty"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
}

// Origin describes the channel a batch arrived through. It fixes the id
// prefix, the source tag, whether duplicates are skipped, and the employer
// reference for authenticated submissions.
type Origin struct {
	prefix     string
	source     string
	dedup      bool
	employerID string
}

// ManualOrigin is a single submission by an authenticated employer. No
// dedup: trusted submissions are always inserted.
func ManualOrigin(employerID string) Origin {
	return Origin{prefix: "job", source: model.SourceDirect, employerID: employerID}
}

// BulkOrigin is a tab-separated admin upload. Duplicates are skipped.
func BulkOrigin() Origin {
	return Origin{prefix: "bulk", source: model.SourceBulkImport, dedup: true}
}

// ScrapeOrigin is an automated import from the named external job board.
// Duplicates are skipped so repeated scraping runs do not repost.
func ScrapeOrigin(source string) Origin {
	prefix := "sc"
	switch source {
	case model.SourceKariyerNet:
		prefix = "kn"
	case model.SourceLinkedIn:
		prefix = "li"
	}
	return Origin{prefix: prefix, source: source, dedup: true}
}

// Rejection reports a record that failed field validation. Index is the
// record's position in the input batch.
type Rejection struct {
	Index  int               `json:"index"`
	Fields map[string]string `json:"fields"`
}

// Result summarises one ingestion call. Rejections and duplicate skips are
// per-record outcomes, not batch failures.
type Result struct {
	Accepted          []model.JobRecord `json:"accepted"`
	SkippedDuplicates int               `json:"skippedDuplicates"`
	Rejected          []Rejection       `json:"rejected"`
}

// Pipeline validates, normalizes and stores raw records.
type Pipeline struct {
	store    store.Store
	validate *validator.Validate
	now      func() time.Time
}

// NewPipeline constructs a Pipeline writing to st.
func NewPipeline(st store.Store) *Pipeline {
	return &Pipeline{
		store:    st,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Validate checks one raw record and returns per-field error messages,
// or nil when the record is valid.
func (p *Pipeline) Validate(raw RawRecord) map[string]string {
	err := p.validate.Struct(raw)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "is required"
		case "min":
			fields[name] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "oneof":
			fields[name] = fmt.Sprintf("must be one of %s", fe.Param())
		default:
			fields[name] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}
	return fields
}

// Ingest processes raws in input order. Records failing validation are
// rejected individually; bulk/scrape duplicates are skipped and counted.
// A storage failure aborts the batch and is returned alongside the partial
// result — it is never reported as success.
func (p *Pipeline) Ingest(ctx context.Context, raws []RawRecord, origin Origin) (Result, error) {
	res := Result{Accepted: make([]model.JobRecord, 0, len(raws))}

	for i, raw := range raws {
		if fields := p.Validate(raw); fields != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Fields: fields})
			continue
		}

		now := p.now().UTC()
		job := model.JobRecord{
			ID:           newID(origin.prefix, now),
			Title:        raw.Title,
			Company:      raw.Company,
			Location:     raw.Location,
			Description:  raw.Description,
			Requirements: raw.Requirements,
			Type:         model.JobType(raw.Type),
			Salary:       raw.Salary,
			CreatedAt:    now,
			Source:       origin.source,
			SourceURL:    raw.SourceURL,
			EmployerID:   origin.employerID,
		}
		if job.Requirements == nil {
			job.Requirements = []string{}
		}

		if origin.dedup {
			inserted, err := p.store.AppendJobDedup(ctx, job)
			if err != nil {
				return res, fmt.Errorf("append job %q: %w", job.Title, err)
			}
			if !inserted {
				res.SkippedDuplicates++
				continue
			}
		} else {
			if err := p.store.AppendJob(ctx, job); err != nil {
				return res, fmt.Errorf("append job %q: %w", job.Title, err)
			}
		}
		res.Accepted = append(res.Accepted, job)
	}

	return res, nil
}

// newID builds `<origin-prefix>_<unix-ms>_<random-suffix>` ids, unique with
// high probability across the record set.
func newID(prefix string, now time.Time) string {
	suffix := gonanoid.MustGenerate(idAlphabet, 9)
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}
