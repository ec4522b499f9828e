// Package store owns the durable state of the bot: the profile record file
// and the shared-secret password list. Profiles are persisted as one JSON
// document replaced atomically on every write; a process-wide mutex serializes
// read-modify-write cycles so concurrent handlers cannot lose updates.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/maabuz/ishbot/core/logger"
	"github.com/maabuz/ishbot/internal/model"
)

// Users is the file-backed profile store.
type Users struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewUsers creates a store over the given JSON file. The file may not exist
// yet; it is created on first write.
func NewUsers(path string) *Users {
	return &Users{path: path, now: time.Now}
}

// GetOrCreate returns the profile for tgID, creating and persisting a default
// one when absent.
func (s *Users) GetOrCreate(ctx context.Context, tgID int64) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return model.UserProfile{}, err
	}
	key := profileKey(tgID)
	if p, ok := users[key]; ok {
		return p, nil
	}

	p := s.defaultProfile(tgID, len(users))
	users[key] = p
	if err := s.save(users); err != nil {
		return model.UserProfile{}, err
	}
	logger.Store.LogAttrs(ctx, slog.LevelInfo, "profile created",
		slog.String("event", "profile.create"),
		slog.Int64("user_id", tgID),
		slog.Int64("id", p.ID),
	)
	return p, nil
}

// Mutate applies fn to the profile for tgID under the store lock and persists
// the result atomically. A default profile is created first when absent. The
// returned profile is the post-mutation state.
func (s *Users) Mutate(ctx context.Context, tgID int64, fn func(*model.UserProfile)) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return model.UserProfile{}, err
	}
	key := profileKey(tgID)
	p, ok := users[key]
	if !ok {
		p = s.defaultProfile(tgID, len(users))
	}
	if fn != nil {
		fn(&p)
	}
	users[key] = p
	if err := s.save(users); err != nil {
		return model.UserProfile{}, err
	}
	return p, nil
}

// Count returns the number of stored profiles.
func (s *Users) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (s *Users) defaultProfile(tgID int64, existing int) model.UserProfile {
	return model.UserProfile{
		ID:         int64(existing) + 1,
		TelegramID: tgID,
		Registered: false,
		CreatedAt:  s.now().UTC().Truncate(time.Second),
		Cart:       []int64{},
		Disliked:   []int64{},
	}
}

// load reads the whole store file. A missing file yields an empty store.
func (s *Users) load() (map[string]model.UserProfile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.UserProfile{}, nil
		}
		return nil, fmt.Errorf("read user store: %w", err)
	}
	users := map[string]model.UserProfile{}
	if len(data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode user store: %w", err)
	}
	return users, nil
}

// save publishes the full store in one step: write to a temp file in the same
// directory, fsync, then rename over the previous file. Readers never observe
// a partial write and a crash mid-write leaves the old file intact.
func (s *Users) save(users map[string]model.UserProfile) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace user store: %w", err)
	}
	return nil
}

func profileKey(tgID int64) string {
	return strconv.FormatInt(tgID, 10)
}
