// Package session keeps the signed-in user and the last fetched inventory
// in the client's local store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"xianshiji/domain"
	"xianshiji/internal/client/store"
	"xianshiji/pkg/inventory"
)

const (
	userKey     = "user"
	snapshotKey = "inventory"
)

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrNoSnapshot  = errors.New("no saved inventory")
)

type Session struct {
	User  domain.UserResponse `json:"user"`
	Token string              `json:"token"`
}

// Snapshot is the inventory as last seen from the server.
type Snapshot struct {
	UserID    uint             `json:"userId"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Items     []inventory.Item `json:"items"`
}

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Manager struct {
	kv KV
}

func NewManager(kv KV) *Manager {
	return &Manager{kv: kv}
}

func (m *Manager) Load(ctx context.Context) (Session, error) {
	raw, err := m.kv.Get(ctx, userKey)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrNotSignedIn
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" || s.User.ID == 0 {
		return Session{}, ErrNotSignedIn
	}
	return s, nil
}

func (m *Manager) Save(ctx context.Context, login domain.LoginResponse) error {
	raw, err := json.Marshal(Session{User: login.User, Token: login.Token})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return m.kv.Set(ctx, userKey, raw)
}

// UpdateUser replaces the stored profile and keeps the token.
func (m *Manager) UpdateUser(ctx context.Context, user domain.UserResponse) error {
	s, err := m.Load(ctx)
	if err != nil {
		return err
	}
	return m.Save(ctx, domain.LoginResponse{User: user, Token: s.Token})
}

// Clear signs out and drops the saved inventory.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.kv.Delete(ctx, userKey); err != nil {
		return err
	}
	return m.kv.Delete(ctx, snapshotKey)
}

func (m *Manager) SaveSnapshot(ctx context.Context, userID uint, items []inventory.Item, at time.Time) error {
	if items == nil {
		items = []inventory.Item{}
	}
	raw, err := json.Marshal(Snapshot{UserID: userID, FetchedAt: at, Items: items})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return m.kv.Set(ctx, snapshotKey, raw)
}

// LoadSnapshot returns the saved inventory of userID with every status
// recomputed by c, so offline views never show a stale status.
func (m *Manager) LoadSnapshot(ctx context.Context, userID uint, c inventory.Classifier) (Snapshot, error) {
	raw, err := m.kv.Get(ctx, snapshotKey)
	if errors.Is(err, store.ErrNotFound) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.UserID != userID {
		return Snapshot{}, ErrNoSnapshot
	}
	snap.Items = c.Reclassify(snap.Items)
	return snap, nil
}
