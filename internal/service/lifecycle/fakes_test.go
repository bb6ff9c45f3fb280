package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"carematch_server/internal/dto/event"
	"carematch_server/internal/infrastructure/mailer"
	"carematch_server/internal/model"
	"carematch_server/pkg/errorx"
)

// memStore 内存版请求存储，ConditionalUpdate 在锁内比较状态
type memStore struct {
	mu           sync.Mutex
	rows         map[uint]*model.HelpRequest
	beforeUpdate func()
	updateErr    error
}

func newMemStore(reqs ...*model.HelpRequest) *memStore {
	s := &memStore{rows: make(map[uint]*model.HelpRequest)}
	for _, r := range reqs {
		s.rows[r.ID] = r
	}
	return s
}

func (s *memStore) FindByID(id uint) (*model.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, errorx.New(errorx.CodeNotFound, "find request")
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) ConditionalUpdate(id uint, expected string, fields map[string]any) (int64, error) {
	if s.beforeUpdate != nil {
		s.beforeUpdate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	r, ok := s.rows[id]
	if !ok || r.Status != expected {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			r.Status = v.(string)
		case "pending_volunteer_name":
			r.PendingVolunteerName = strOrNil(v)
		case "pending_volunteer_email":
			r.PendingVolunteerEmail = strOrNil(v)
		case "pending_volunteer_phone":
			r.PendingVolunteerPhone = strOrNil(v)
		case "pending_volunteer_msg":
			r.PendingVolunteerMsg = strOrNil(v)
		case "pending_volunteer_at":
			if t, ok := v.(time.Time); ok {
				r.PendingVolunteerAt = &t
			} else {
				r.PendingVolunteerAt = nil
			}
		}
	}
	return 1, nil
}

func (s *memStore) setStatus(id uint, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id].Status = status
}

// get 返回当前行的副本
func (s *memStore) get(id uint) *model.HelpRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.rows[id]
	return &cp
}

func strOrNil(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

type memDirectory map[uint]*model.UserInfo

func (d memDirectory) FindByID(id uint) (*model.UserInfo, error) {
	u, ok := d[id]
	if !ok {
		return nil, errorx.New(errorx.CodeNotFound, "find user")
	}
	return u, nil
}

type sentNotice struct {
	to       string
	interest mailer.VolunteerInterest
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []sentNotice
	err   error
	delay time.Duration
	hook  func()
}

func (n *fakeNotifier) NotifyOwnerOfClaim(_ context.Context, to string, interest mailer.VolunteerInterest) error {
	if n.delay > 0 {
		time.Sleep(n.delay)
	}
	if n.hook != nil {
		n.hook()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotice{to: to, interest: interest})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.LifecycleEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev event.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var errSMTPDown = errors.New("dial tcp: connection refused")
