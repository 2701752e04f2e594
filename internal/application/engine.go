package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

const (
	noticeTTL        = 5 * time.Second
	deleteNoticeTTL  = 10 * time.Second
	triggerDeleteTTL = 5 * time.Second
	moveTimeout      = 5 * time.Second
)

var _ input.EventCoordinator = (*Engine)(nil)

// Engine coordinates the events of every organizer.
//
// mu guards groups, switchDialogs, dirty and everything reachable from them
// (instances, locations and their dialog maps). Network calls never run while
// mu is held: they are queued on a txn and run after unlock.
type Engine struct {
	mu            sync.Mutex
	groups        map[string]*entities.EventGroup // by organizer ID
	switchDialogs map[string]*entities.Dialog     // by message ID
	dirty         bool

	// Latest chooser request not yet registered. A chooser whose request
	// is not the latest one is deleted as soon as it is sent.
	seq              uint64
	positionRequests map[positionRequest]uint64
	switchRequests   map[string]uint64 // by organizer ID

	messenger output.Messenger
	store     output.EventStore
	scheduler output.Scheduler
	tr        output.T

	locale      string
	ownerID     string
	prefix      string
	loc         *time.Location
	now         func() time.Time
	run         func(func())
	moveTimeout time.Duration
}

type Option func(*Engine)

// WithOwner sets the bot owner, allowed to delete any event.
func WithOwner(userID string) Option {
	return func(e *Engine) { e.ownerID = userID }
}

func WithLocale(locale string) Option {
	return func(e *Engine) { e.locale = locale }
}

// WithLocation sets the timezone dates and times are entered in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(e *Engine) { e.prefix = prefix }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRunner replaces how background work is started. Tests pass a runner
// calling f inline.
func WithRunner(run func(f func())) Option {
	return func(e *Engine) { e.run = run }
}

func WithMoveTimeout(d time.Duration) Option {
	return func(e *Engine) { e.moveTimeout = d }
}

func New(messenger output.Messenger, store output.EventStore, scheduler output.Scheduler, tr output.T, opts ...Option) *Engine {
	e := &Engine{
		groups:           make(map[string]*entities.EventGroup),
		switchDialogs:    make(map[string]*entities.Dialog),
		positionRequests: make(map[positionRequest]uint64),
		switchRequests:   make(map[string]uint64),
		messenger:        messenger,
		store:            store,
		scheduler:        scheduler,
		tr:               tr,
		locale:           "en",
		prefix:           "!",
		loc:              time.UTC,
		now:              time.Now,
		run:              func(f func()) { go f() },
		moveTimeout:      moveTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// txn is one critical section of the engine. Jobs queued with later run in
// order, on a single background goroutine, once the lock is released.
type txn struct {
	e    *Engine
	jobs []func(ctx context.Context)
}

func (e *Engine) begin() *txn {
	e.mu.Lock()
	return &txn{e: e}
}

func (t *txn) later(job func(ctx context.Context)) {
	t.jobs = append(t.jobs, job)
}

// touch marks the state as changed since the last save.
func (t *txn) touch() {
	t.e.dirty = true
}

func (t *txn) commit(ctx context.Context) {
	t.e.mu.Unlock()
	if len(t.jobs) == 0 {
		return
	}
	jobs := t.jobs
	ctx = context.WithoutCancel(ctx)
	t.e.run(func() {
		for _, job := range jobs {
			job(ctx)
		}
	})
}

type positionRequest struct {
	inst   *entities.EventInstance
	userID string
}

// nextSeq numbers a chooser request. Caller holds mu.
func (e *Engine) nextSeq() uint64 {
	e.seq++
	return e.seq
}

func (e *Engine) nowLocal() time.Time {
	return e.now().In(e.loc)
}

func (e *Engine) text(key string, data map[string]any) string {
	return e.tr.T(e.locale, key, data)
}

// errorText translates a domain error, falling back to a generic message.
func (e *Engine) errorText(err error) string {
	code := domain.Code(err)
	if code == "" {
		code = "unknown"
	}
	return e.text("errors."+code, nil)
}

// notify posts a notice that deletes itself after ttl.
func (e *Engine) notify(ctx context.Context, channelID, text string, ttl time.Duration) {
	if channelID == "" {
		return
	}
	ref, err := e.messenger.SendText(ctx, channelID, text)
	if err != nil {
		log.Printf("⚠️ Notice non envoyée dans %s: %v", channelID, err)
		return
	}
	e.scheduler.AfterFunc(ttl, func() {
		e.deleteMessage(context.WithoutCancel(ctx), ref)
	})
}

// fail queues a transient error notice.
func (t *txn) fail(channelID string, err error) {
	e := t.e
	msg := e.errorText(err)
	t.later(func(ctx context.Context) { e.notify(ctx, channelID, msg, noticeTTL) })
}

// say queues a transient translated notice.
func (t *txn) say(channelID, key string, data map[string]any) {
	e := t.e
	msg := e.text(key, data)
	t.later(func(ctx context.Context) { e.notify(ctx, channelID, msg, noticeTTL) })
}

func (e *Engine) deleteMessage(ctx context.Context, ref entities.MessageRef) {
	if ref.IsZero() {
		return
	}
	if err := e.messenger.Delete(ctx, ref); err != nil && !errors.Is(err, output.ErrMessageNotFound) {
		log.Printf("⚠️ Suppression du message %s: %v", ref.MessageID, err)
	}
}

func (e *Engine) stripReaction(ctx context.Context, ref entities.MessageRef, s entities.Symbol, userID string) {
	if err := e.messenger.RemoveUserReaction(ctx, ref, s, userID); err != nil && !errors.Is(err, output.ErrMessageNotFound) {
		log.Printf("⚠️ Retrait de la réaction %s sur %s: %v", s.Reaction(), ref.MessageID, err)
	}
}

// groupOf returns the group holding inst, or nil when inst was deleted
// meanwhile. Caller holds mu.
func (e *Engine) groupOf(inst *entities.EventInstance) *entities.EventGroup {
	g := e.groups[inst.OrganizerID]
	if g == nil || g.Index(inst) == 0 {
		return nil
	}
	return g
}

// removeInstance deletes inst from its group and tears down what it owns.
// Caller holds mu.
func (t *txn) removeInstance(g *entities.EventGroup, inst *entities.EventInstance) {
	e := t.e
	if !g.Remove(inst) {
		return
	}
	if g.Empty() {
		delete(e.groups, g.OrganizerID)
	}
	t.cancelDialogs(inst.TakeDialogs())
	t.cancelSwitchDialogs(g.OrganizerID)
	for key := range e.positionRequests {
		if key.inst == inst {
			delete(e.positionRequests, key)
		}
	}
	guild := inst.GuildEmbed
	t.later(func(ctx context.Context) { e.deleteMessage(ctx, guild) })
	t.touch()
}

// cancelDialogs stops the timers of dialogs already unregistered and deletes
// their messages.
func (t *txn) cancelDialogs(dialogs []*entities.Dialog) {
	e := t.e
	for _, d := range dialogs {
		d.Cancel()
		ref := d.Message
		t.later(func(ctx context.Context) { e.deleteMessage(ctx, ref) })
	}
}

func (t *txn) cancelSwitchDialogs(ownerID string) {
	var taken []*entities.Dialog
	for id, d := range t.e.switchDialogs {
		if d.OwnerID == ownerID {
			taken = append(taken, d)
			delete(t.e.switchDialogs, id)
		}
	}
	t.cancelDialogs(taken)
}
