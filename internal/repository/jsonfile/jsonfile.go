// Package jsonfile implements the repository interfaces over a single JSON
// document on disk — the layout the tracker originally persisted:
//
//	{"users": [...], "applications": [...]}
//
// Every mutation is a read-entire-document → modify → write-entire-document
// cycle. That is obviously not a database, and that's the point: the store
// stays human-inspectable (open db.json in an editor), trivially backed up
// (copy one file), and has zero operational surface. For a single-user
// tracker the whole document is a few kilobytes.
//
// CRASH SAFETY:
// Writes go to a temp file in the same directory, then os.Rename swaps it
// over the real file. Rename is atomic on POSIX filesystems, so a crash
// mid-save leaves either the old document or the new one — never a torn,
// half-written JSON file.
//
// CONCURRENCY:
// A single mutex serializes every load/save cycle within the process, so two
// in-flight requests can't interleave their read-modify-write. Across
// processes it's last-write-wins, same as the original.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/jobtrack/internal/apperror"
	"github.com/sakif/jobtrack/internal/model"
	"github.com/sakif/jobtrack/internal/repository"
)

var (
	_ repository.UserRepository        = (*Store)(nil)
	_ repository.ApplicationRepository = (*Store)(nil)
)

// document is the whole on-disk structure. Both collections live in one file
// so a save is always a consistent snapshot of everything.
type document struct {
	Users        []model.User        `json:"users"`
	Applications []model.Application `json:"applications"`
}

// Store is a whole-document JSON record store.
type Store struct {
	path string
	mu   sync.Mutex // serializes every load/save cycle
}

// New creates a Store backed by the file at path, creating the parent
// directory and an empty document if they don't exist yet.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("jsonfile: creating data directory: %w", err)
	}

	s := &Store{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(&document{
			Users:        []model.User{},
			Applications: []model.Application{},
		}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("jsonfile: checking %s: %w", path, err)
	}

	// Fail fast on an unreadable or corrupt document rather than on the
	// first request.
	if _, err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// load reads and parses the whole document. Callers must hold s.mu.
func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: reading %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("jsonfile: parsing %s: %w", s.path, err)
	}

	return &doc, nil
}

// save writes the whole document back: temp file, then atomic rename.
// Callers must hold s.mu (except during New, before the store is shared).
func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("jsonfile: writing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("jsonfile: replacing %s: %w", s.path, err)
	}

	return nil
}

// =========================================================================
// UserRepository
// =========================================================================

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for _, u := range doc.Users {
		if u.Email == user.Email {
			return apperror.Conflict("Email already exists")
		}
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	doc.Users = append(doc.Users, *user)
	return s.save(doc)
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Users {
		if doc.Users[i].Email == email {
			u := doc.Users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Users {
		if doc.Users[i].ID == id {
			u := doc.Users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (s *Store) UpsertGitHub(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for i := range doc.Users {
		if doc.Users[i].GitHubID == user.GitHubID {
			// Refresh the display name, keep everything else stable.
			doc.Users[i].Name = user.Name
			doc.Users[i].UpdatedAt = time.Now()
			*user = doc.Users[i]
			return s.save(doc)
		}
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	doc.Users = append(doc.Users, *user)
	return s.save(doc)
}

// =========================================================================
// ApplicationRepository
// =========================================================================

func (s *Store) ListByUser(_ context.Context, userID string) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	apps := make([]model.Application, 0, len(doc.Applications))
	for _, a := range doc.Applications {
		if a.UserID == userID {
			apps = append(apps, a)
		}
	}

	// Newest appliedDate first. SortStableFunc keeps insertion order for
	// equal dates, matching the sqlite store's created_at tiebreak closely
	// enough for a same-day pair.
	slices.SortStableFunc(apps, func(a, b model.Application) int {
		return strings.Compare(b.AppliedDate, a.AppliedDate)
	})

	return apps, nil
}

// Create appends a new application record.
func (s *Store) Create(_ context.Context, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	now := time.Now()
	app.ID = xid.New().String()
	app.CreatedAt = now
	app.UpdatedAt = now

	doc.Applications = append(doc.Applications, *app)
	return s.save(doc)
}

func (s *Store) GetByUser(_ context.Context, userID, id string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Applications {
		if doc.Applications[i].ID == id && doc.Applications[i].UserID == userID {
			a := doc.Applications[i]
			return &a, nil
		}
	}
	return nil, apperror.NotFound("application", id)
}

func (s *Store) Update(_ context.Context, userID string, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for i := range doc.Applications {
		if doc.Applications[i].ID == app.ID && doc.Applications[i].UserID == userID {
			app.UserID = userID
			app.CreatedAt = doc.Applications[i].CreatedAt
			app.UpdatedAt = time.Now()
			doc.Applications[i] = *app
			return s.save(doc)
		}
	}
	return apperror.NotFound("application", app.ID)
}

func (s *Store) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for i := range doc.Applications {
		if doc.Applications[i].ID == id && doc.Applications[i].UserID == userID {
			doc.Applications = slices.Delete(doc.Applications, i, i+1)
			return s.save(doc)
		}
	}
	return apperror.NotFound("application", id)
}
