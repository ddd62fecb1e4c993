package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mcanavci/lawjobs/internal/model"
)

// File implements Store on flat JSON documents: one holding every job
// record, with users and applications in sibling documents. Every append
// rewrites the whole document, so all writes are serialized through a single
// mutex held across the full read-modify-write cycle. Reads share a lock
// with writers to avoid observing a half-written file.
//
// A missing file is not an error — it reads as an empty record set and is
// materialized lazily on the first write.
type File struct {
	mu sync.RWMutex

	jobsPath  string
	usersPath string
	appsPath  string
}

// jobsDocument is the on-disk shape of the jobs file. Records are inserted
// newest-first by convention but the file order is not trusted on read; the
// query engine sorts.
type jobsDocument struct {
	Jobs []model.JobRecord `json:"jobs"`
}

// fileUser carries the password hash, which model.User deliberately keeps
// out of its JSON form.
type fileUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"passwordHash"`
	Role         model.Role `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type usersDocument struct {
	Users []fileUser `json:"users"`
}

type applicationsDocument struct {
	Applications []model.Application `json:"applications"`
}

// NewFile returns a flat-file store writing to the given paths.
func NewFile(jobsPath, usersPath, appsPath string) *File {
	return &File{jobsPath: jobsPath, usersPath: usersPath, appsPath: appsPath}
}

// ── Document I/O ──────────────────────────────────────────────────────────

// readDoc decodes path into v. A missing file leaves v untouched; malformed
// content is reported as ErrCorrupt rather than silently discarded.
func readDoc(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCorrupt, path, err)
	}
	return nil
}

// writeDoc writes v to path via a temp file and rename so readers never see
// a partially written document.
func writeDoc(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// ── Jobs ──────────────────────────────────────────────────────────────────

func (s *File) ListJobs(ctx context.Context) ([]model.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readJobs()
}

func (s *File) readJobs() ([]model.JobRecord, error) {
	var doc jobsDocument
	if err := readDoc(s.jobsPath, &doc); err != nil {
		return nil, err
	}
	if doc.Jobs == nil {
		doc.Jobs = []model.JobRecord{}
	}
	return doc.Jobs, nil
}

func (s *File) AppendJob(ctx context.Context, job model.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.readJobs()
	if err != nil {
		return err
	}
	return writeDoc(s.jobsPath, jobsDocument{Jobs: append([]model.JobRecord{job}, jobs...)})
}

func (s *File) AppendJobDedup(ctx context.Context, job model.JobRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.readJobs()
	if err != nil {
		return false, err
	}
	for _, existing := range jobs {
		if strings.EqualFold(existing.Title, job.Title) &&
			strings.EqualFold(existing.Company, job.Company) {
			return false, nil
		}
	}
	if err := writeDoc(s.jobsPath, jobsDocument{Jobs: append([]model.JobRecord{job}, jobs...)}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *File) FindJobByID(ctx context.Context, id string) (model.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs, err := s.readJobs()
	if err != nil {
		return model.JobRecord{}, err
	}
	for _, j := range jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return model.JobRecord{}, ErrNotFound
}

// ── Users ─────────────────────────────────────────────────────────────────

func (s *File) readUsers() ([]fileUser, error) {
	var doc usersDocument
	if err := readDoc(s.usersPath, &doc); err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func (s *File) CreateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	users = append(users, fileUser{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	})
	return writeDoc(s.usersPath, usersDocument{Users: users})
}

func (s *File) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findUser(func(u fileUser) bool { return strings.EqualFold(u.Email, email) })
}

func (s *File) FindUserByID(ctx context.Context, id string) (model.User, error) {
	return s.findUser(func(u fileUser) bool { return u.ID == id })
}

func (s *File) findUser(match func(fileUser) bool) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users, err := s.readUsers()
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if match(u) {
			return model.User{
				ID:           u.ID,
				Email:        u.Email,
				Name:         u.Name,
				PasswordHash: u.PasswordHash,
				Role:         u.Role,
				CreatedAt:    u.CreatedAt,
			}, nil
		}
	}
	return model.User{}, ErrNotFound
}

// ── Applications ──────────────────────────────────────────────────────────

func (s *File) CreateApplication(ctx context.Context, app model.Application) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc applicationsDocument
	if err := readDoc(s.appsPath, &doc); err != nil {
		return false, err
	}
	for _, a := range doc.Applications {
		if a.UserID == app.UserID && a.JobID == app.JobID {
			return false, nil
		}
	}
	doc.Applications = append(doc.Applications, app)
	if err := writeDoc(s.appsPath, doc); err != nil {
		return false, err
	}
	return true, nil
}
