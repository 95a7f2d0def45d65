package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"studygroup/pkg/logger"
	"studygroup/pkg/metrics"

	"github.com/valyala/fastjson"
)

// Collection files, one JSON array per entity type. The filenames are part
// of the persisted-state contract and cannot change.
const (
	usersFile         = "database.json"
	postsFile         = "study_posts.json"
	chatFile          = "chat.json"
	privateChatsFile  = "private_chats.json"
	notificationsFile = "notifications.json"
	registrationsFile = "registrations.json"
	followsFile       = "follows.json"
)

var collectionFiles = []string{
	usersFile,
	postsFile,
	chatFile,
	privateChatsFile,
	notificationsFile,
	registrationsFile,
	followsFile,
}

// Store is a whole-file JSON store. Every read loads an entire collection,
// every write replaces it. A per-collection mutex serializes the
// read-modify-write sequences that the Update* methods run, so two requests
// mutating the same collection cannot interleave.
type Store struct {
	dir string
	log *logger.Logger
	mus map[string]*sync.Mutex
}

// New opens (and if necessary creates) the data directory and makes sure all
// seven collection files exist as empty arrays.
func New(dir string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetDefault()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	s := &Store{
		dir: dir,
		log: log,
		mus: make(map[string]*sync.Mutex, len(collectionFiles)),
	}
	for _, file := range collectionFiles {
		s.mus[file] = &sync.Mutex{}
	}

	if err := s.ensureFiles(); err != nil {
		return nil, err
	}

	return s, nil
}

// Dir returns the data directory the store was opened on.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) ensureFiles() error {
	for _, file := range collectionFiles {
		path := s.path(file)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			s.log.Info("creating collection file: %s", file)
			if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

// readCollection loads a whole collection. A missing file reads as empty; an
// empty, non-array or unparsable file also reads as empty, with a warning.
// Callers never see a storage error.
func readCollection[T any](s *Store, file string) []T {
	data, err := os.ReadFile(s.path(file))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).Warn("failed to read collection %s", file)
			metrics.CollectionCorruptions.WithLabelValues(file).Inc()
		}
		return []T{}
	}

	if len(data) == 0 {
		return []T{}
	}

	if v, err := fastjson.ParseBytes(data); err != nil || v.Type() != fastjson.TypeArray {
		s.log.Warn("collection %s is not a JSON array, treating as empty", file)
		metrics.CollectionCorruptions.WithLabelValues(file).Inc()
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.WithError(err).Warn("failed to decode collection %s, treating as empty", file)
		metrics.CollectionCorruptions.WithLabelValues(file).Inc()
		return []T{}
	}

	metrics.CollectionReads.WithLabelValues(file).Inc()
	metrics.CollectionRecords.WithLabelValues(file).Set(float64(len(records)))
	return records
}

// writeCollection replaces a whole collection on disk. Failures are logged
// and swallowed; the caller proceeds as if the write landed.
func writeCollection[T any](s *Store, file string, records []T) {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.log.WithError(err).Error("failed to encode collection %s", file)
		metrics.CollectionWriteFailures.WithLabelValues(file).Inc()
		return
	}

	if err := os.WriteFile(s.path(file), data, 0644); err != nil {
		s.log.WithError(err).Error("failed to save collection %s", file)
		metrics.CollectionWriteFailures.WithLabelValues(file).Inc()
		return
	}

	metrics.CollectionWrites.WithLabelValues(file).Inc()
	metrics.CollectionRecords.WithLabelValues(file).Set(float64(len(records)))
}

func get[T any](s *Store, file string) []T {
	mu := s.mus[file]
	mu.Lock()
	defer mu.Unlock()
	return readCollection[T](s, file)
}

// update runs fn under the collection mutex. fn returns the new collection
// contents and whether they should be written back. fn must not call back
// into the same collection.
func update[T, R any](s *Store, file string, fn func([]T) ([]T, R, bool)) R {
	mu := s.mus[file]
	mu.Lock()
	defer mu.Unlock()

	records := readCollection[T](s, file)
	out, result, save := fn(records)
	if save {
		writeCollection(s, file, out)
	}
	return result
}

// Users

func (s *Store) Users() []User {
	return get[User](s, usersFile)
}

func (s *Store) UpdateUsers(fn func([]User) ([]User, bool)) {
	update(s, usersFile, func(users []User) ([]User, struct{}, bool) {
		out, save := fn(users)
		return out, struct{}{}, save
	})
}

// FindUser resolves a user by internal id first, then by username. One scan,
// two match slots, replacing the original's sequential lookups.
func (s *Store) FindUser(idOrUsername string) (User, bool) {
	if idOrUsername == "" {
		return User{}, false
	}

	var byUsername *User
	for _, u := range s.Users() {
		if u.ID == idOrUsername {
			return u, true
		}
		if byUsername == nil && u.UserID == idOrUsername {
			match := u
			byUsername = &match
		}
	}

	if byUsername != nil {
		return *byUsername, true
	}
	return User{}, false
}

// Study posts

func (s *Store) Posts() []StudyPost {
	return get[StudyPost](s, postsFile)
}

func (s *Store) UpdatePosts(fn func([]StudyPost) ([]StudyPost, bool)) {
	update(s, postsFile, func(posts []StudyPost) ([]StudyPost, struct{}, bool) {
		out, save := fn(posts)
		return out, struct{}{}, save
	})
}

// Registrations

func (s *Store) Registrations() []Registration {
	return get[Registration](s, registrationsFile)
}

// UpdateRegistrations runs fn under the registrations mutex and returns fn's
// error, so existence checks and the insert happen in one critical section.
func (s *Store) UpdateRegistrations(fn func([]Registration) ([]Registration, error)) error {
	return update(s, registrationsFile, func(regs []Registration) ([]Registration, error, bool) {
		out, err := fn(regs)
		return out, err, err == nil
	})
}

// Follows

func (s *Store) Follows() []Follow {
	return get[Follow](s, followsFile)
}

func (s *Store) UpdateFollows(fn func([]Follow) []Follow) []Follow {
	return update(s, followsFile, func(edges []Follow) ([]Follow, []Follow, bool) {
		out := fn(edges)
		return out, out, true
	})
}

// Notifications

func (s *Store) Notifications() []Notification {
	return get[Notification](s, notificationsFile)
}

func (s *Store) UpdateNotifications(fn func([]Notification) ([]Notification, bool)) {
	update(s, notificationsFile, func(notis []Notification) ([]Notification, struct{}, bool) {
		out, save := fn(notis)
		return out, struct{}{}, save
	})
}

// Global chat

func (s *Store) GlobalMessages() []GlobalMessage {
	return get[GlobalMessage](s, chatFile)
}

func (s *Store) UpdateGlobalMessages(fn func([]GlobalMessage) []GlobalMessage) {
	update(s, chatFile, func(msgs []GlobalMessage) ([]GlobalMessage, struct{}, bool) {
		return fn(msgs), struct{}{}, true
	})
}

// Private chat

func (s *Store) PrivateMessages() []PrivateMessage {
	return get[PrivateMessage](s, privateChatsFile)
}

func (s *Store) AppendPrivateMessage(msg PrivateMessage) {
	update(s, privateChatsFile, func(msgs []PrivateMessage) ([]PrivateMessage, struct{}, bool) {
		return append(msgs, msg), struct{}{}, true
	})
}
