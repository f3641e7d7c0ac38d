// Package notify holds transient user-facing messages that expire on their own.
package notify

import (
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/obs"
)

// DefaultDuration applies when a notification is enqueued with Duration 0.
const DefaultDuration = 5 * time.Second

type entry struct {
	n     model.Notification
	timer *time.Timer
}

// Queue owns live notifications. Every entry with a positive duration has exactly
// one timer, stopped on manual dismissal; a timer firing for a removed id is a no-op.
type Queue struct {
	mu       sync.Mutex
	items    []*entry
	byID     map[string]*entry
	subs     map[int]func([]model.Notification)
	nextSub  int
	duration time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewQueue builds a Queue whose default lifetime is defaultDuration (DefaultDuration when <= 0).
func NewQueue(defaultDuration time.Duration, log *zap.Logger) *Queue {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Queue{
		byID:     make(map[string]*entry),
		subs:     make(map[int]func([]model.Notification)),
		duration: defaultDuration,
		now:      time.Now,
		log:      obs.OrNop(log),
	}
}

// Enqueue stores n and returns its id. Negative durations never expire.
func (q *Queue) Enqueue(n model.Notification) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.Must(uuid.NewV4())
	}
	n.ID = id.String()
	if n.Duration == 0 {
		n.Duration = q.duration
	}

	q.mu.Lock()
	n.CreatedAt = q.now()
	e := &entry{n: n}
	q.items = append(q.items, e)
	q.byID[n.ID] = e
	if n.Duration > 0 {
		e.timer = time.AfterFunc(n.Duration, func() { q.expire(n.ID) })
	}
	snap, subs := q.snapshotLocked()
	q.mu.Unlock()

	q.log.Debug("notification enqueued", zap.String("id", n.ID), zap.String("kind", string(n.Kind)))
	publish(subs, snap)
	return n.ID
}

// Success, Error, Warning and Info enqueue with the default duration.
func (q *Queue) Success(title, msg string) string { return q.push(model.NotifySuccess, title, msg) }
func (q *Queue) Error(title, msg string) string   { return q.push(model.NotifyError, title, msg) }
func (q *Queue) Warning(title, msg string) string { return q.push(model.NotifyWarning, title, msg) }
func (q *Queue) Info(title, msg string) string    { return q.push(model.NotifyInfo, title, msg) }

func (q *Queue) push(kind model.NotificationKind, title, msg string) string {
	return q.Enqueue(model.Notification{Kind: kind, Title: title, Message: msg})
}

// Dismiss removes id and cancels its timer. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.remove(id, true)
}

func (q *Queue) expire(id string) {
	q.remove(id, false)
}

func (q *Queue) remove(id string, stop bool) {
	q.mu.Lock()
	e, ok := q.byID[id]
	if !ok {
		q.mu.Unlock()
		return
	}
	if stop && e.timer != nil {
		e.timer.Stop()
	}
	delete(q.byID, id)
	for i, it := range q.items {
		if it == e {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	snap, subs := q.snapshotLocked()
	q.mu.Unlock()

	publish(subs, snap)
}

// Clear drops every notification and stops all timers.
func (q *Queue) Clear() {
	q.mu.Lock()
	for _, e := range q.items {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	q.items = nil
	q.byID = make(map[string]*entry)
	snap, subs := q.snapshotLocked()
	q.mu.Unlock()

	publish(subs, snap)
}

// List returns live notifications, oldest first.
func (q *Queue) List() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	snap, _ := q.snapshotLocked()
	return snap
}

// Len returns the number of live notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Subscribe registers fn for every change; the returned func unregisters it.
// fn runs outside the queue lock and may call back into the queue.
func (q *Queue) Subscribe(fn func([]model.Notification)) func() {
	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}
}

func (q *Queue) snapshotLocked() ([]model.Notification, []func([]model.Notification)) {
	snap := make([]model.Notification, len(q.items))
	for i, e := range q.items {
		snap[i] = e.n
	}
	subs := make([]func([]model.Notification), 0, len(q.subs))
	for _, fn := range q.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

func publish(subs []func([]model.Notification), snap []model.Notification) {
	for _, fn := range subs {
		fn(snap)
	}
}
