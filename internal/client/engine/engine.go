// Package engine implements the client-side realtime synchronization engine:
// it keeps local view-state (tracked groups, the focused group's roster and
// file list, uploader profiles, unseen-activity badges) consistent with the
// remote store, which pushes changes asynchronously and out of order across
// subscriptions.
//
// All engine state is owned by a single task loop: subscription callbacks and
// completed one-shot fetches post closures to the loop instead of mutating
// state directly. Blocking work (authoritative refetches, roster fan-out)
// runs in short-lived goroutines and posts its result back, guarded by
// generation counters so a result for a superseded focus or tracked-set is
// discarded. Public getters are synchronous round-trips through the loop, so
// a caller always observes a state the loop actually produced.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/groupshare/internal/client/config"
	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/client/repositories/watermarks"
	"github.com/dmitrijs2005/groupshare/internal/client/session"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/logging"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

type Engine struct {
	log  logging.Logger
	rc   remote.Client
	sess *session.Session
	wm   watermarks.Repository

	pollInterval     time.Duration
	refetchAttempts  int
	refetchBaseDelay time.Duration

	// task loop
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc

	now func() time.Time

	// loop-owned state; never touched outside posted tasks.
	subs     *subscriptionSet
	tracked  map[string]struct{}
	groups   map[string]models.Group
	focus    string
	onChange func()

	members   []models.GroupMember
	rosterGen int

	files    []models.FileRecord
	filesGen int

	uploaderIDs map[string]struct{}
	uploaders   map[string]models.UploaderProfile

	unseen map[string]*unseenState
}

func New(rc remote.Client, sess *session.Session, wm watermarks.Repository, cfg *config.Config, log logging.Logger) *Engine {
	e := &Engine{
		log:              log,
		rc:               rc,
		sess:             sess,
		wm:               wm,
		pollInterval:     cfg.PollInterval,
		refetchAttempts:  cfg.RefetchAttempts,
		refetchBaseDelay: cfg.RefetchBaseDelay,
		now:              time.Now,
		subs:             newSubscriptionSet(),
		tracked:          map[string]struct{}{},
		groups:           map[string]models.Group{},
		uploaderIDs:      map[string]struct{}{},
		uploaders:        map[string]models.UploaderProfile{},
		unseen:           map[string]*unseenState{},
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Start launches the task loop and opens the primary membership subscription.
func (e *Engine) Start(ctx context.Context) {
	e.ctx, e.cancel = context.WithCancel(ctx)
	go e.run()
	e.call(func() { e.watchMemberships() })
}

// Stop tears down every live subscription and stops the loop. Teardown is
// synchronous with the call: once Stop returns, no callback fires again.
func (e *Engine) Stop() {
	e.call(func() { e.subs.removeAll() })

	e.mu.Lock()
	e.stopped = true
	e.cond.Broadcast()
	e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) run() {
	for {
		e.mu.Lock()
		for len(e.tasks) == 0 && !e.stopped {
			e.cond.Wait()
		}
		if e.stopped {
			e.mu.Unlock()
			return
		}
		fn := e.tasks[0]
		e.tasks = e.tasks[1:]
		e.mu.Unlock()

		fn()
	}
}

// post enqueues fn on the task loop. Returns false if the engine is stopped.
func (e *Engine) post(fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return false
	}
	e.tasks = append(e.tasks, fn)
	e.cond.Signal()
	return true
}

// call runs fn on the loop and waits for it. Must not be called from within
// a loop task.
func (e *Engine) call(fn func()) {
	done := make(chan struct{})
	if !e.post(func() {
		defer close(done)
		fn()
	}) {
		return
	}
	<-done
}

func (e *Engine) notifyChange() {
	if e.onChange != nil {
		e.onChange()
	}
}

// OnChange registers a hook invoked on the loop after every applied state
// change. Intended for UI invalidation; the hook must not call back into
// blocking engine methods.
func (e *Engine) OnChange(fn func()) {
	e.call(func() { e.onChange = fn })
}

// Focus returns the currently focused group id, or "" when none is selected.
func (e *Engine) Focus() string {
	var out string
	e.call(func() { out = e.focus })
	return out
}

// SetFocus makes groupID the presented group: the watermark advances and the
// badge clears immediately, ahead of the next subscription push, and the
// roster/file/uploader subscriptions are switched over. Passing "" clears
// focus. Focusing an untracked group returns common.ErrorNotFound.
func (e *Engine) SetFocus(groupID string) error {
	var err error
	e.call(func() {
		if groupID != "" {
			if _, ok := e.tracked[groupID]; !ok {
				err = common.ErrorNotFound
				return
			}
		}
		e.setFocus(groupID)
	})
	return err
}

func (e *Engine) setFocus(groupID string) {
	if e.focus == groupID {
		return
	}

	e.clearFocusState()
	e.focus = groupID

	if groupID == "" {
		e.notifyChange()
		return
	}

	e.advanceWatermark(groupID)
	e.watchRoster(groupID)
	e.watchFocusedFiles(groupID)
	e.notifyChange()
}

// clearFocusState cancels the focus-scoped subscriptions and resets their
// derived state. Teardown is synchronous with the triggering event.
func (e *Engine) clearFocusState() {
	e.subs.remove(keyRoster)
	e.subs.remove(keyFiles)
	for id := range e.uploaderIDs {
		e.subs.remove(keyUploader(id))
	}
	e.uploaderIDs = map[string]struct{}{}
	e.uploaders = map[string]models.UploaderProfile{}
	e.members = nil
	e.files = nil
	e.rosterGen++
	e.filesGen++
}

// Groups returns the cached group list sorted by creation time, newest
// first. Sorting is presentation-layer only; the membership subscription
// implies no ordering.
func (e *Engine) Groups() []models.Group {
	var out []models.Group
	e.call(func() {
		out = make([]models.Group, 0, len(e.groups))
		for _, g := range e.groups {
			out = append(out, g)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Members returns the assembled roster of the focused group.
func (e *Engine) Members() []models.GroupMember {
	var out []models.GroupMember
	e.call(func() {
		out = append(out, e.members...)
	})
	return out
}

// Files returns the focused group's file list, sorted by upload time
// ascending.
func (e *Engine) Files() []models.FileRecord {
	var out []models.FileRecord
	e.call(func() {
		out = append(out, e.files...)
	})
	return out
}

// Uploaders returns the live uploader-profile map for the focused group's
// file list. Renderers derive display strings from this map, not from the
// snapshot embedded in FileRecord, which can be stale.
func (e *Engine) Uploaders() map[string]models.UploaderProfile {
	out := map[string]models.UploaderProfile{}
	e.call(func() {
		for id, p := range e.uploaders {
			out[id] = p
		}
	})
	return out
}
