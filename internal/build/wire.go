package build

import (
	"context"
	"log/slog"

	"github.com/Mshivam2409/rustduino/internal/config"
	"github.com/Mshivam2409/rustduino/internal/docs"
	"github.com/Mshivam2409/rustduino/internal/git"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/metrics"
	"github.com/Mshivam2409/rustduino/internal/natsbus"
	"github.com/Mshivam2409/rustduino/internal/oracle"
	"github.com/Mshivam2409/rustduino/internal/retry"
	"github.com/Mshivam2409/rustduino/internal/revision"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Needs selects the resources FromConfig opens.
type Needs struct {
	Oracle bool
	Store  bool
	Events bool
}

// FromConfig builds a Service from configuration, opening the oracle,
// revision store, event publisher and metrics recorder as requested.
// Extra options are applied last.
func FromConfig(ctx context.Context, cfg *config.Config, needs Needs, opts ...Option) (*Service, error) {
	var base []Option
	var closers []func() error
	fail := func(err error) (*Service, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	base = append(base, WithSidebar(cfg.Sidebar.Name), WithRepo(cfg.Oracle.Git.Repo))

	var reopen func(context.Context) (oracle.Oracle, *docs.Catalog, error)
	if needs.Oracle {
		o, cat, closeFn, err := OpenOracle(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
		if cat != nil {
			base = append(base, WithCatalog(cat))
			reopen = func(ctx context.Context) (oracle.Oracle, *docs.Catalog, error) {
				o, cat, _, err := OpenOracle(ctx, cfg)
				return o, cat, err
			}
		}
		base = append(base, WithOracle(o))
	}

	if needs.Store {
		st, err := revision.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, st.Close)
		base = append(base, WithStore(st))
	}

	if needs.Events && cfg.Events.Enabled() {
		client, err := ConnectNATS(ctx, natsbus.Options{
			URL:     cfg.Events.URL,
			Bucket:  cfg.Oracle.NATS.Bucket,
			Subject: cfg.Events.Subject,
		})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, client.Close)
		base = append(base, WithPublisher(client))
	}

	if path := cfg.Metrics.Textfile; path != "" {
		rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
		base = append(base, WithRecorder(rec))
		closers = append(closers, func() error { return rec.WriteTextfile(path) })
	}

	s := NewService(append(base, opts...)...)
	s.reopen = reopen
	s.closers = closers
	return s, nil
}

// OpenOracle builds the configured document oracle. The catalog is non-nil
// for oracles that know document titles; the close function is non-nil for
// oracles holding a connection.
func OpenOracle(ctx context.Context, cfg *config.Config) (oracle.Oracle, *docs.Catalog, func() error, error) {
	var (
		o       oracle.Oracle
		cat     *docs.Catalog
		closeFn func() error
	)
	switch cfg.Oracle.Type {
	case config.OracleGit:
		repo, err := git.Open(cfg.Oracle.Git.Repo)
		if err != nil {
			return nil, nil, nil, err
		}
		cat, err = docs.ScanGit(repo, cfg.Oracle.Git.Ref, cfg.Oracle.Git.Path, cfg.Docs.Extensions)
		if err != nil {
			return nil, nil, nil, err
		}
		o = cat
	case config.OracleNATS:
		client, err := ConnectNATS(ctx, natsbus.Options{URL: cfg.Oracle.NATS.URL, Bucket: cfg.Oracle.NATS.Bucket})
		if err != nil {
			return nil, nil, nil, err
		}
		o, closeFn = client, client.Close
	case config.OracleStatic:
		o = oracle.NewStatic(cfg.Oracle.Static...)
	default:
		var err error
		cat, err = docs.Scan(cfg.Docs.Path, cfg.Docs.Extensions)
		if err != nil {
			return nil, nil, nil, err
		}
		o = cat
	}

	if ttl := cfg.Oracle.CacheDuration(); ttl > 0 && cat == nil {
		o = oracle.NewCaching(o, ttl)
	}
	slog.Debug("Document oracle ready", logfields.Oracle(string(cfg.Oracle.Type)))
	return o, cat, closeFn, nil
}

// ConnectPolicy governs retries of NATS connections.
var ConnectPolicy = retry.DefaultPolicy()

// ConnectNATS dials NATS, retrying transient failures under ConnectPolicy.
func ConnectNATS(ctx context.Context, opts natsbus.Options) (*natsbus.Client, error) {
	return retry.Do(ctx, ConnectPolicy, "nats connect", func(ctx context.Context) (*natsbus.Client, error) {
		return natsbus.Connect(ctx, opts)
	})
}
