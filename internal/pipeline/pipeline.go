package pipeline

import (
	"context"
	"fmt"
	"time"

	"communitygraph/internal/graph/community"
	"communitygraph/internal/logger"
	"communitygraph/internal/metrics"
	"communitygraph/internal/output/graphjson"
)

// Pipeline stages, used as failure labels.
const (
	StageRead      = "read"
	StageBuild     = "build"
	StageSerialize = "serialize"
	StageWrite     = "write"
	StageCommit    = "commit"
)

// Result summarizes a successful run.
type Result struct {
	Rows  int
	Nodes int
	Edges int
	Bytes int
}

// GraphPipeline reads rows, builds the community graph and writes its document.
// Nothing is written unless every earlier stage succeeded.
type GraphPipeline struct {
	source  RowSource
	builder *community.Builder
	writer  DocumentWriter
	metrics *metrics.BuildMetrics
	now     func() time.Time
}

// NewGraphPipeline creates a pipeline. m may be nil.
func NewGraphPipeline(source RowSource, writer DocumentWriter, m *metrics.BuildMetrics) *GraphPipeline {
	opts := community.BuilderOptions{}
	if m != nil {
		opts.Recorder = m
	}
	return &GraphPipeline{
		source:  source,
		builder: community.NewBuilder(opts),
		writer:  writer,
		metrics: m,
		now:     time.Now,
	}
}

// Run executes one pass.
func (p *GraphPipeline) Run(ctx context.Context) (Result, error) {
	started := p.now()
	logger.Infof("Graph pipeline started")

	rows, err := p.source.ReadRows(ctx)
	if err != nil {
		return Result{}, p.fail(StageRead, err)
	}

	g, err := p.builder.Build(rows)
	if err != nil {
		return Result{}, p.fail(StageBuild, err)
	}

	data, err := graphjson.Serialize(g)
	if err != nil {
		return Result{}, p.fail(StageSerialize, err)
	}

	if err := p.writer.WriteDocument(ctx, data); err != nil {
		return Result{}, p.fail(StageWrite, fmt.Errorf("write graph document: %w", err))
	}
	if c, ok := p.source.(Committer); ok {
		if err := c.Commit(ctx); err != nil {
			return Result{}, p.fail(StageCommit, fmt.Errorf("commit consumed rows: %w", err))
		}
	}

	res := Result{Rows: len(rows), Nodes: g.NodeCount(), Edges: g.EdgeCount(), Bytes: len(data)}
	if p.metrics != nil {
		p.metrics.ObserveSuccess(started, p.now())
	}
	logger.Infof("Graph pipeline finished: rows=%d nodes=%d edges=%d bytes=%d", res.Rows, res.Nodes, res.Edges, res.Bytes)
	return res, nil
}

// Close releases pipeline resources.
func (p *GraphPipeline) Close() error {
	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			logger.Errorf("Failed to close graph writer: %v", err)
			return err
		}
	}
	if c, ok := p.source.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (p *GraphPipeline) fail(stage string, err error) error {
	logger.Errorf("Graph pipeline failed at %s: %v", stage, err)
	if p.metrics != nil {
		p.metrics.ObserveFailure(stage)
	}
	return err
}
