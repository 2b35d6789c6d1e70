// ABOUTME: Proposal view model shared by the CLI, TUI, and MCP surfaces
// ABOUTME: Validates actions, calls the webhook gateway, and keeps the query cache fresh
package proposals

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/pitch/cache"
	"github.com/harperreed/pitch/gateway"
	"github.com/harperreed/pitch/logging"
	"github.com/harperreed/pitch/models"
)

// Gateway is the webhook API the view model drives. *gateway.Client satisfies it.
type Gateway interface {
	GenerateProposal(ctx context.Context, req gateway.GenerateRequest) gateway.Response[gateway.GenerateResult]
	ManageProposal(ctx context.Context, req gateway.ManageRequest) gateway.Response[gateway.ManageResult]
	GeneratePDF(ctx context.Context, proposalID, userID string) gateway.Response[gateway.PDFResult]
	ListMeetings(ctx context.Context, userID string) gateway.Response[gateway.MeetingsResult]
	GetTranscript(ctx context.Context, userID, meetingID string) gateway.Response[gateway.TranscriptResult]
}

// Repository reads proposal rows and writes profile settings.
type Repository interface {
	ListProposals(ctx context.Context, userID string) ([]models.Proposal, error)
	// GetProposal returns nil, nil when the id is unknown.
	GetProposal(ctx context.Context, id string) (*models.Proposal, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// Recorder is implemented by backends that keep proposal rows themselves,
// such as the local SQLite store. The hosted backend is written by the
// webhook service and does not need it.
type Recorder interface {
	SaveProposal(ctx context.Context, p *models.Proposal) error
	UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, sentAt *time.Time) error
	RecordOutcome(ctx context.Context, o *models.Outcome) error
}

// Session exposes the signed-in user. *auth.Store satisfies it.
type Session interface {
	Current() *models.User
	Refresh(ctx context.Context) error
}

type Service struct {
	gw       Gateway
	repo     Repository
	recorder Recorder
	session  Session
	cache    *cache.Cache
	logger   *log.Logger
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(gw Gateway, repo Repository, session Session, c *cache.Cache, logger *log.Logger) *Service {
	s := &Service{
		gw:       gw,
		repo:     repo,
		session:  session,
		cache:    c,
		logger:   logging.OrDiscard(logger),
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
	if c == nil {
		s.cache = cache.New()
	}
	if r, ok := repo.(Recorder); ok {
		s.recorder = r
	}
	return s
}

func (s *Service) user() (*models.User, error) {
	u := s.session.Current()
	if u == nil {
		return nil, ErrNotSignedIn
	}
	return u, nil
}

// begin claims action for a proposal until the returned func is called.
func (s *Service) begin(action, id string) (func(), error) {
	key := action + ":" + id
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return nil, ErrActionInFlight
	}
	s.inFlight[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}, nil
}

// Busy reports whether action is running for the proposal, so surfaces can
// disable the control that starts it.
func (s *Service) Busy(action, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[action+":"+id]
	return busy
}

const (
	ActionGenerate = "generate"
	ActionMarkSent = "mark_sent"
	ActionOutcome  = "outcome"
	ActionPDF      = "pdf"
)

// List returns the signed-in user's proposals, newest first.
func (s *Service) List(ctx context.Context) ([]models.Proposal, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}
	return cache.Get(ctx, s.cache, cache.ProposalsKey(u.ID), func(ctx context.Context) ([]models.Proposal, error) {
		return s.repo.ListProposals(ctx, u.ID)
	})
}

// Get returns one of the signed-in user's proposals. Another user's row
// reads as ErrNotFound, as it does through the hosted backend's row policies.
// The result is shared with the cache and must not be modified.
func (s *Service) Get(ctx context.Context, id string) (*models.Proposal, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}
	p, err := cache.Get(ctx, s.cache, cache.ProposalKey(id), func(ctx context.Context) (*models.Proposal, error) {
		p, err := s.repo.GetProposal(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrNotFound
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	if p.CreatedBy != "" && p.CreatedBy != u.ID {
		return nil, ErrNotFound
	}
	return p, nil
}

// Reload drops the cached copies of a proposal and the user's list.
func (s *Service) Reload(id string) {
	keys := []string{cache.ProposalKey(id)}
	if u := s.session.Current(); u != nil {
		keys = append(keys, cache.ProposalsKey(u.ID))
	}
	s.cache.Invalidate(keys...)
}
