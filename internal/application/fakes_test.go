package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

type sentMessage struct {
	Ref   entities.MessageRef
	Embed *output.Embed
	Text  string
	alive bool
}

type strip struct {
	MessageID string
	Symbol    entities.Symbol
	UserID    string
}

// fakeMessenger records every call and keeps messages in memory.
type fakeMessenger struct {
	mu        sync.Mutex
	nextID    int
	messages  map[string]*sentMessage
	order     []*sentMessage
	edits     map[string][]output.Embed
	reactions map[string][]entities.Symbol
	strips    []strip
	denied    map[string]bool
	blocked   map[string]chan struct{}
	emojis    map[string]entities.Symbol
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		messages:  make(map[string]*sentMessage),
		edits:     make(map[string][]output.Embed),
		reactions: make(map[string][]entities.Symbol),
		denied:    make(map[string]bool),
		blocked:   make(map[string]chan struct{}),
		emojis:    make(map[string]entities.Symbol),
	}
}

func (m *fakeMessenger) post(channelID string, embed *output.Embed, text string) entities.MessageRef {
	m.nextID++
	ref := entities.MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("m%d", m.nextID)}
	msg := &sentMessage{Ref: ref, Embed: embed, Text: text, alive: true}
	m.messages[ref.MessageID] = msg
	m.order = append(m.order, msg)
	return ref
}

// seed registers a message that exists before the test starts.
func (m *fakeMessenger) seed(ref entities.MessageRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[ref.MessageID] = &sentMessage{Ref: ref, alive: true}
}

func (m *fakeMessenger) SendEmbed(_ context.Context, channelID string, embed output.Embed) (entities.MessageRef, error) {
	m.mu.Lock()
	wait := m.blocked[channelID]
	m.mu.Unlock()
	if wait != nil {
		<-wait
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.denied[channelID] {
		return entities.MessageRef{}, output.ErrMissingPermissions
	}
	return m.post(channelID, &embed, ""), nil
}

func (m *fakeMessenger) SendText(_ context.Context, channelID, content string) (entities.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.denied[channelID] {
		return entities.MessageRef{}, output.ErrMissingPermissions
	}
	return m.post(channelID, nil, content), nil
}

func (m *fakeMessenger) EditEmbed(_ context.Context, ref entities.MessageRef, embed output.Embed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.messages[ref.MessageID]
	if msg == nil || !msg.alive {
		return output.ErrMessageNotFound
	}
	msg.Embed = &embed
	m.edits[ref.MessageID] = append(m.edits[ref.MessageID], embed)
	return nil
}

func (m *fakeMessenger) Delete(_ context.Context, ref entities.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.messages[ref.MessageID]
	if msg == nil || !msg.alive {
		return output.ErrMessageNotFound
	}
	msg.alive = false
	return nil
}

func (m *fakeMessenger) FetchMessage(_ context.Context, ref entities.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.messages[ref.MessageID]
	if msg == nil || !msg.alive {
		return output.ErrMessageNotFound
	}
	return nil
}

func (m *fakeMessenger) Reactions(_ context.Context, ref entities.MessageRef) ([]entities.Symbol, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Symbol(nil), m.reactions[ref.MessageID]...), nil
}

func (m *fakeMessenger) AddReaction(_ context.Context, ref entities.MessageRef, s entities.Symbol) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.messages[ref.MessageID]
	if msg == nil || !msg.alive {
		return output.ErrMessageNotFound
	}
	m.reactions[ref.MessageID] = append(m.reactions[ref.MessageID], s)
	return nil
}

func (m *fakeMessenger) RemoveUserReaction(_ context.Context, ref entities.MessageRef, s entities.Symbol, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strips = append(m.strips, strip{MessageID: ref.MessageID, Symbol: s, UserID: userID})
	return nil
}

func (m *fakeMessenger) ClearReaction(_ context.Context, ref entities.MessageRef, s entities.Symbol) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.reactions[ref.MessageID][:0]
	for _, r := range m.reactions[ref.MessageID] {
		if !r.Equal(s) {
			kept = append(kept, r)
		}
	}
	m.reactions[ref.MessageID] = kept
	return nil
}

func (m *fakeMessenger) OpenPrivateChannel(_ context.Context, userID string) (string, error) {
	return "dm-" + userID, nil
}

func (m *fakeMessenger) CustomEmoji(_ context.Context, _, name string) (entities.Symbol, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.emojis[name]
	return s, ok
}

func (m *fakeMessenger) DisplayName(_ context.Context, _, userID string) string {
	return "name-" + userID
}

func (m *fakeMessenger) alive(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.messages[id]
	return msg != nil && msg.alive
}

// texts returns the text messages sent to channelID, in order.
func (m *fakeMessenger) texts(channelID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.order {
		if msg.Ref.ChannelID == channelID && msg.Embed == nil {
			out = append(out, msg.Text)
		}
	}
	return out
}

// lastEmbed returns the last embed message posted to channelID.
func (m *fakeMessenger) lastEmbed(channelID string) *sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		if msg := m.order[i]; msg.Ref.ChannelID == channelID && msg.Embed != nil {
			return msg
		}
	}
	return nil
}

func (m *fakeMessenger) markers(id string) []entities.Symbol {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Symbol(nil), m.reactions[id]...)
}

func (m *fakeMessenger) stripsOf(id string) []strip {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []strip
	for _, s := range m.strips {
		if s.MessageID == id {
			out = append(out, s)
		}
	}
	return out
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimerHandle struct {
	s *fakeScheduler
	t *fakeTimer
}

func (h fakeTimerHandle) Stop() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	active := !h.t.stopped && !h.t.fired
	h.t.stopped = true
	return active
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) output.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return fakeTimerHandle{s: s, t: t}
}

// fire runs every pending timer scheduled for d.
func (s *fakeScheduler) fire(d time.Duration) int {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if t.d == d && !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (s *fakeScheduler) pending(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if t.d == d && !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// keyTranslator returns the message key itself.
type keyTranslator struct{}

func (keyTranslator) T(_, key string, _ map[string]any) string { return key }

type memStore struct {
	mu     sync.Mutex
	saved  []*entities.EventGroup
	saves  int
	loaded []*entities.EventGroup
	err    error
}

func (s *memStore) SaveAll(_ context.Context, groups []*entities.EventGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = groups
	s.saves++
	return nil
}

func (s *memStore) LoadAll(context.Context) ([]*entities.EventGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded, s.err
}
