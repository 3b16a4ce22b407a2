package graphredis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"communitygraph/internal/logger"
	"communitygraph/internal/output/graphjson"
)

// Config configures Redis access for graph document publishing.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Stats summarizes a published document by node kind and edge relation.
type Stats struct {
	Nodes     map[string]int64 `json:"nodes"`
	Edges     map[string]int64 `json:"edges"`
	UpdatedAt time.Time        `json:"updated_at,omitempty"`
}

// Writer stores the latest graph document under a key and its counts under <key>:stats.
type Writer struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewWriter constructs a Redis-backed document writer.
func NewWriter(cfg Config) (*Writer, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.Key) == "" {
		cfg.Key = "communitygraph:graph"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis graph store: %w", err)
	}

	logger.Infof("Graph Redis writer initialized: %s key=%s", cfg.Addr, cfg.Key)
	return &Writer{client: client, key: strings.TrimSpace(cfg.Key), now: time.Now}, nil
}

// WriteDocument replaces the stored document and its stats in one transaction.
func (w *Writer) WriteDocument(ctx context.Context, data []byte) error {
	doc, err := graphjson.Parse(data)
	if err != nil {
		return err
	}

	fields := []interface{}{"updated_at", strconv.FormatInt(w.now().Unix(), 10)}
	for kind, n := range countBy(len(doc.Nodes), func(i int) string { return doc.Nodes[i].Type }) {
		fields = append(fields, "nodes:"+kind, n)
	}
	for rel, n := range countBy(len(doc.Edges), func(i int) string { return doc.Edges[i].Type }) {
		fields = append(fields, "edges:"+rel, n)
	}

	pipe := w.client.TxPipeline()
	pipe.Set(ctx, w.key, data, 0)
	pipe.Del(ctx, w.statsKey())
	pipe.HSet(ctx, w.statsKey(), fields...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store graph document in redis: %w", err)
	}

	logger.Debugf("Graph document stored in redis: key=%s nodes=%d edges=%d", w.key, len(doc.Nodes), len(doc.Edges))
	return nil
}

// FetchDocument returns the stored document bytes.
func (w *Writer) FetchDocument(ctx context.Context) ([]byte, error) {
	data, err := w.client.Get(ctx, w.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read graph document: %w", err)
	}
	return data, nil
}

// FetchStats returns the stored document summary.
func (w *Writer) FetchStats(ctx context.Context) (Stats, error) {
	st := Stats{Nodes: map[string]int64{}, Edges: map[string]int64{}}
	hash, err := w.client.HGetAll(ctx, w.statsKey()).Result()
	if err != nil {
		return st, fmt.Errorf("read graph stats: %w", err)
	}
	for field, raw := range hash {
		if field == "updated_at" {
			if unix, err := strconv.ParseInt(raw, 10, 64); err == nil && unix > 0 {
				st.UpdatedAt = time.Unix(unix, 0).UTC()
			}
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(field, "nodes:"):
			st.Nodes[strings.TrimPrefix(field, "nodes:")] = n
		case strings.HasPrefix(field, "edges:"):
			st.Edges[strings.TrimPrefix(field, "edges:")] = n
		}
	}
	return st, nil
}

// Close closes Redis resources.
func (w *Writer) Close() error {
	if w == nil || w.client == nil {
		return nil
	}
	return w.client.Close()
}

func (w *Writer) statsKey() string {
	return w.key + ":stats"
}

func countBy(n int, label func(int) string) map[string]int64 {
	out := make(map[string]int64)
	for i := 0; i < n; i++ {
		out[label(i)]++
	}
	return out
}
