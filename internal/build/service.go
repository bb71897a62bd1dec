package build

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Mshivam2409/rustduino/internal/docs"
	"github.com/Mshivam2409/rustduino/internal/ingest"
	"github.com/Mshivam2409/rustduino/internal/merge"
	"github.com/Mshivam2409/rustduino/internal/metrics"
	"github.com/Mshivam2409/rustduino/internal/natsbus"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/Mshivam2409/rustduino/internal/oracle"
	"github.com/Mshivam2409/rustduino/internal/render"
	"github.com/Mshivam2409/rustduino/internal/revision"
	"github.com/Mshivam2409/rustduino/internal/validation"
)

// Status is the outcome of a pass.
type Status string

const (
	StatusClean     Status = metrics.OutcomeClean
	StatusIssues    Status = metrics.OutcomeIssues
	StatusConflicts Status = metrics.OutcomeConflicts
	StatusFailed    Status = metrics.OutcomeFailed
)

// Pass is the result of one validate, merge or resolve run over a sidebar.
type Pass struct {
	ID        string
	Sidebar   string
	Source    string
	Tree      *navtree.Tree
	Warnings  []ingest.Warning
	Report    *validation.Report
	Conflicts merge.ConflictLog
	Status    Status
	StartTime time.Time
	Duration  time.Duration
}

// OK reports whether the pass found neither issues nor conflicts.
func (p *Pass) OK() bool { return p != nil && p.Status == StatusClean }

// Outcome pairs a pass with its error in ValidateAll.
type Outcome struct {
	Source Source
	Pass   *Pass
	Err    error
}

// Publisher announces validation reports and commits.
type Publisher interface {
	Publish(ctx context.Context, ev natsbus.Event) error
}

// Service runs navigation passes. It is safe for concurrent use.
type Service struct {
	sidebar     string
	repoPath    string
	store       revision.Store
	events      Publisher
	recorder    metrics.Recorder
	logger      *slog.Logger
	concurrency int

	mu        sync.RWMutex
	oracle    oracle.Oracle
	catalog   *docs.Catalog
	validator *validation.Validator
	reopen    func(ctx context.Context) (oracle.Oracle, *docs.Catalog, error)

	closers []func() error
}

// Option configures a Service.
type Option func(*Service)

// WithSidebar selects the sidebar name; empty selects the first declared one.
func WithSidebar(name string) Option {
	return func(s *Service) { s.sidebar = name }
}

// WithRepo sets the git repository used for "ref:path" sources.
func WithRepo(path string) Option {
	return func(s *Service) { s.repoPath = path }
}

// WithOracle sets the document oracle. Without one, validation skips the
// referential check.
func WithOracle(o oracle.Oracle) Option {
	return func(s *Service) { s.oracle = o }
}

// WithCatalog sets the catalog used for document titles.
func WithCatalog(c *docs.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithStore sets the revision store.
func WithStore(st revision.Store) Option {
	return func(s *Service) { s.store = st }
}

// WithPublisher sets the event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConcurrency bounds ValidateAll parallelism.
func WithConcurrency(n int) Option {
	return func(s *Service) { s.concurrency = n }
}

// NewService creates a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		repoPath:    ".",
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = s.newValidator(s.oracle)
	return s
}

func (s *Service) newValidator(o oracle.Oracle) *validation.Validator {
	return validation.New(o, validation.WithLogger(s.logger), validation.WithConcurrency(s.concurrency))
}

func (s *Service) current() (*validation.Validator, *docs.Catalog) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validator, s.catalog
}

// Store returns the revision store, or nil.
func (s *Service) Store() revision.Store { return s.store }

// Titles returns a title resolver backed by the document catalog, or nil
// when the oracle has no titles.
func (s *Service) Titles() render.TitleFunc {
	_, cat := s.current()
	if cat == nil {
		return nil
	}
	return func(id string) string {
		title, _ := cat.Title(id)
		return title
	}
}

// RefreshOracle rebuilds the oracle from its source, or drops cached
// answers when it cannot be rebuilt.
func (s *Service) RefreshOracle(ctx context.Context) error {
	s.mu.RLock()
	reopen, current := s.reopen, s.oracle
	s.mu.RUnlock()

	if reopen == nil {
		if c, ok := current.(*oracle.Caching); ok {
			c.Invalidate()
		}
		return nil
	}
	o, cat, err := reopen(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.oracle, s.catalog, s.validator = o, cat, s.newValidator(o)
	s.mu.Unlock()
	return nil
}

// Close releases resources opened by FromConfig.
func (s *Service) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
