// Package memory is an in-process implementation of every repository interface.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/repository"
)

var (
	_ repository.UserRepository        = (*DB)(nil)
	_ repository.AssetRepository       = (*DB)(nil)
	_ repository.AssignmentRepository  = (*DB)(nil)
	_ repository.MaintenanceRepository = (*DB)(nil)
)

// table is an auto-increment keyed collection.
type table[T any] struct {
	rows map[int64]T
	seq  int64
}

func newTable[T any]() table[T] { return table[T]{rows: make(map[int64]T)} }

func (t *table[T]) insert(v T) int64 {
	t.seq++
	t.rows[t.seq] = v
	return t.seq
}

func (t *table[T]) get(id int64) (T, error) {
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, errs.ErrNotFound
	}
	return v, nil
}

func (t *table[T]) replace(id int64, v T) error {
	if _, ok := t.rows[id]; !ok {
		return errs.ErrNotFound
	}
	t.rows[id] = v
	return nil
}

func (t *table[T]) remove(id int64) error {
	if _, ok := t.rows[id]; !ok {
		return errs.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) list() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// DB holds all tables behind one lock.
type DB struct {
	mu           sync.RWMutex
	users        table[model.User]
	assets       table[model.TechAsset]
	assignments  table[model.AssetAssignment]
	maintenances table[model.AssetMaintenance]
}

// New returns an empty DB.
func New() *DB {
	return &DB{
		users:        newTable[model.User](),
		assets:       newTable[model.TechAsset](),
		assignments:  newTable[model.AssetAssignment](),
		maintenances: newTable[model.AssetMaintenance](),
	}
}

func cloneUser(u model.User) model.User {
	u.Roles = slices.Clone(u.Roles)
	return u
}

// Create inserts a new user; emails are unique case-insensitively.
func (db *DB) Create(_ context.Context, u *model.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: email %s", errs.ErrAlreadyExists, u.Email)
		}
	}
	u.ID = db.users.seq + 1
	db.users.insert(cloneUser(*u))
	return nil
}

func (db *DB) GetByID(_ context.Context, id int64) (*model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, err := db.users.get(id)
	if err != nil {
		return nil, err
	}
	u = cloneUser(u)
	return &u, nil
}

func (db *DB) GetByEmail(_ context.Context, email string) (*model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users.rows {
		if strings.EqualFold(u.Email, email) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (db *DB) List(_ context.Context) ([]model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := db.users.list()
	for i := range out {
		out[i] = cloneUser(out[i])
	}
	return out, nil
}

func (db *DB) serialTaken(serial string, except int64) bool {
	for id, a := range db.assets.rows {
		if id != except && strings.EqualFold(a.SerialNumber, serial) {
			return true
		}
	}
	return false
}

func (db *DB) CreateAsset(_ context.Context, a *model.TechAsset) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.serialTaken(a.SerialNumber, 0) {
		return fmt.Errorf("%w: serial number %s", errs.ErrAlreadyExists, a.SerialNumber)
	}
	a.ID = db.assets.seq + 1
	db.assets.insert(*a)
	return nil
}

func (db *DB) GetAsset(_ context.Context, id int64) (*model.TechAsset, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	a, err := db.assets.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) UpdateAsset(_ context.Context, a *model.TechAsset) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.serialTaken(a.SerialNumber, a.ID) {
		return fmt.Errorf("%w: serial number %s", errs.ErrAlreadyExists, a.SerialNumber)
	}
	return db.assets.replace(a.ID, *a)
}

func (db *DB) DeleteAsset(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.assets.remove(id)
}

func (db *DB) ListAssets(_ context.Context) ([]model.TechAsset, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.assets.list(), nil
}

func (db *DB) CreateAssignment(_ context.Context, a *model.AssetAssignment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	a.ID = db.assignments.seq + 1
	db.assignments.insert(*a)
	return nil
}

func (db *DB) GetAssignment(_ context.Context, id int64) (*model.AssetAssignment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	a, err := db.assignments.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) UpdateAssignment(_ context.Context, a *model.AssetAssignment) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.assignments.replace(a.ID, *a)
}

func (db *DB) DeleteAssignment(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.assignments.remove(id)
}

func (db *DB) ListAssignments(_ context.Context) ([]model.AssetAssignment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.assignments.list(), nil
}

func (db *DB) CreateMaintenance(_ context.Context, m *model.AssetMaintenance) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	m.ID = db.maintenances.seq + 1
	db.maintenances.insert(*m)
	return nil
}

func (db *DB) GetMaintenance(_ context.Context, id int64) (*model.AssetMaintenance, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	m, err := db.maintenances.get(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *DB) UpdateMaintenance(_ context.Context, m *model.AssetMaintenance) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.maintenances.replace(m.ID, *m)
}

func (db *DB) DeleteMaintenance(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.maintenances.remove(id)
}

func (db *DB) ListMaintenances(_ context.Context) ([]model.AssetMaintenance, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.maintenances.list(), nil
}
