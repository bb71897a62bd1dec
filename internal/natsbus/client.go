// Package natsbus connects navbuilder to NATS JetStream: a key-value bucket
// whose keys are document ids serves as a remote document oracle, and
// validation reports and committed revisions are published as events.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Mshivam2409/rustduino/internal/docs"
	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/util/sets"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	kvTimeout      = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// docStore is the part of jetstream.KeyValue the client uses.
type docStore interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
	ListKeys(ctx context.Context, opts ...jetstream.WatchOpt) (jetstream.KeyLister, error)
}

type publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Options configures Connect.
type Options struct {
	URL     string
	Bucket  string
	Subject string // empty disables publishing
}

// Client is a document oracle and event publisher backed by JetStream.
type Client struct {
	conn    *nats.Conn
	kv      docStore
	js      publisher
	bucket  string
	subject string
}

// Connect dials NATS and opens (creating if needed) the document bucket.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	conn, err := nats.Connect(opts.URL, nats.Name("navbuilder"))
	if err != nil {
		return nil, ferrors.NetworkError("failed to connect to NATS").
			WithCause(err).WithContext("url", opts.URL).Retryable().Build()
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, ferrors.NetworkError("failed to create JetStream context").WithCause(err).Build()
	}

	kvCtx, cancel := context.WithTimeout(ctx, kvTimeout)
	defer cancel()
	kv, err := js.KeyValue(kvCtx, opts.Bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(kvCtx, jetstream.KeyValueConfig{
			Bucket:      opts.Bucket,
			Description: "Documentation ids known to navbuilder",
			History:     1,
		})
		if err == nil {
			slog.Info("Created document bucket", slog.String("bucket", opts.Bucket))
		}
	}
	if err != nil {
		conn.Close()
		return nil, ferrors.OracleError("failed to open document bucket").
			WithCause(err).WithContext("bucket", opts.Bucket).Build()
	}

	slog.Info("NATS client initialized",
		slog.String("url", opts.URL),
		slog.String("bucket", opts.Bucket),
		slog.String("subject", opts.Subject))
	return &Client{conn: conn, kv: kv, js: js, bucket: opts.Bucket, subject: opts.Subject}, nil
}

// Close closes the NATS connection.
func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// Exists reports whether id is a key of the document bucket.
func (c *Client) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, kvTimeout)
	defer cancel()
	_, err := c.kv.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, jetstream.ErrKeyNotFound), errors.Is(err, jetstream.ErrInvalidKey):
		return false, nil
	default:
		return false, c.oracleErr(err)
	}
}

// ExistsBatch lists the bucket keys once and intersects them with ids.
func (c *Client) ExistsBatch(ctx context.Context, ids []string) (sets.Set[string], error) {
	keys, err := c.keys(ctx)
	if err != nil {
		return nil, err
	}
	found := sets.New[string]()
	for _, id := range ids {
		if keys.Has(id) {
			found.Add(id)
		}
	}
	return found, nil
}

// docEntry is the value stored under each document key.
type docEntry struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// SyncCatalog makes the bucket hold exactly the catalogued documents. It
// returns how many keys were written and removed.
func (c *Client) SyncCatalog(ctx context.Context, catalog *docs.Catalog) (put, removed int, err error) {
	existing, err := c.keys(ctx)
	if err != nil {
		return 0, 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, kvTimeout)
	defer cancel()

	for _, d := range catalog.Documents() {
		value, err := json.Marshal(docEntry{Path: d.Path, Title: d.Title})
		if err != nil {
			return put, removed, ferrors.InternalError("failed to encode document entry").WithCause(err).Build()
		}
		if _, err := c.kv.Put(ctx, d.ID, value); err != nil {
			return put, removed, c.oracleErr(err)
		}
		put++
		existing.Delete(d.ID)
	}
	for _, stale := range sets.Sorted(existing) {
		if err := c.kv.Delete(ctx, stale); err != nil {
			return put, removed, c.oracleErr(err)
		}
		removed++
	}
	slog.Info("Document bucket synchronized", slog.String("bucket", c.bucket),
		slog.Int("put", put), slog.Int("removed", removed))
	return put, removed, nil
}

func (c *Client) keys(ctx context.Context) (sets.Set[string], error) {
	ctx, cancel := context.WithTimeout(ctx, kvTimeout)
	defer cancel()

	lister, err := c.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return sets.New[string](), nil
		}
		return nil, c.oracleErr(err)
	}
	defer func() { _ = lister.Stop() }()

	keys := sets.New[string]()
	for k := range lister.Keys() {
		keys.Add(k)
	}
	if err := ctx.Err(); err != nil {
		return nil, c.oracleErr(err)
	}
	return keys, nil
}

func (c *Client) oracleErr(err error) error {
	return ferrors.OracleError("document bucket lookup failed").
		WithCause(err).WithContext("bucket", c.bucket).Build()
}

// Publish sends an event to the configured subject. It is a no-op when no
// subject is configured.
func (c *Client) Publish(ctx context.Context, ev Event) error {
	if c.subject == "" {
		return nil
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return ferrors.InternalError("failed to marshal event").WithCause(err).Build()
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	subject := c.subject + "." + string(ev.Type)
	if _, err := c.js.Publish(ctx, subject, data); err != nil {
		return ferrors.NetworkError("failed to publish event").
			WithCause(err).WithContext("subject", subject).Build()
	}
	slog.Debug("Published event", slog.String("subject", subject), logfields.Sidebar(ev.Sidebar))
	return nil
}
