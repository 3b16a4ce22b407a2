package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"communitygraph/internal/input/csvfile"
	"communitygraph/internal/logger"
	"communitygraph/pkg/models"
)

// Config configures the Redis consumer.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Columns  csvfile.Columns
}

// Consumer reads attendance rows from a Redis list. Each item is a JSON object
// keyed by canonical field name or by configured header. Items stay queued
// until Commit.
type Consumer struct {
	client  *redis.Client
	key     string
	columns csvfile.Columns
	pending int64
}

// NewConsumer creates a Redis consumer for list-based queues.
func NewConsumer(cfg Config) (*Consumer, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("redis key is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Consumer{
		client:  client,
		key:     cfg.Key,
		columns: cfg.Columns,
	}, nil
}

// ReadRows decodes every queued item in list order without removing it.
func (c *Consumer) ReadRows(ctx context.Context) ([]models.Row, error) {
	c.pending = 0
	items, err := c.client.LRange(ctx, c.key, 0, -1).Result()
	if err != nil {
		return nil, &models.InputFormatError{Err: fmt.Errorf("%w: %w", models.ErrUnreadableSource, err)}
	}

	rows := make([]models.Row, 0, len(items))
	for i, item := range items {
		row, err := c.decode([]byte(item))
		if err != nil {
			return nil, &models.InputFormatError{Row: i + 1, Err: fmt.Errorf("%w: %w", models.ErrUnreadableSource, err)}
		}
		rows = append(rows, row)
	}
	c.pending = int64(len(items))
	logger.Infof("Read %d rows from redis list %s", len(rows), c.key)
	return rows, nil
}

// Commit removes the items returned by the last ReadRows. Items pushed since
// then stay queued.
func (c *Consumer) Commit(ctx context.Context) error {
	if c.pending == 0 {
		return nil
	}
	if err := c.client.LTrim(ctx, c.key, c.pending, -1).Err(); err != nil {
		return fmt.Errorf("trim redis list %s: %w", c.key, err)
	}
	logger.Debugf("Committed %d rows from redis list %s", c.pending, c.key)
	c.pending = 0
	return nil
}

func (c *Consumer) decode(payload []byte) (models.Row, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	row := make(models.Row, len(models.RequiredFields))
	for _, field := range models.RequiredFields {
		if v, ok := raw[field]; ok {
			row[field] = stringValue(v)
			continue
		}
		if h := c.columns.Header(field); h != "" {
			if v, ok := raw[h]; ok {
				row[field] = stringValue(v)
			}
		}
	}
	return row, nil
}

// stringValue keeps numbers in their original JSON spelling.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Close closes the consumer.
func (c *Consumer) Close() error {
	return c.client.Close()
}
