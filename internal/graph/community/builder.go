package community

import (
	"communitygraph/internal/logger"
	"communitygraph/pkg/models"
)

// Recorder observes a build. Implementations must tolerate repeated calls.
type Recorder interface {
	ObserveRow()
	ObserveNode(kind string)
	ObserveEdge(relation string)
}

// Builder converts attendance rows into a community graph.
type Builder struct {
	recorder Recorder
}

// BuilderOptions controls builder instrumentation.
type BuilderOptions struct {
	Recorder Recorder
}

// NewBuilder creates a builder.
func NewBuilder(opts BuilderOptions) *Builder {
	return &Builder{recorder: opts.Recorder}
}

// Build constructs a graph with the default builder.
func Build(rows []models.Row) (*Graph, error) {
	return NewBuilder(BuilderOptions{}).Build(rows)
}

// Build converts rows into a graph in a single pass.
// Each row contributes initiator->event, event->participant and space->event edges.
func (b *Builder) Build(rows []models.Row) (*Graph, error) {
	g := NewGraph()
	reg := newRegistry()

	for i, row := range rows {
		if field, missing := row.Missing(); missing {
			logger.Errorf("Rejecting row %d without %s", i+1, field)
			return nil, &models.InputFormatError{Row: i + 1, Field: field, Err: models.ErrMissingField}
		}
		b.observeRow()

		initiator, created := reg.member(row[models.FieldInitiator])
		b.observeNode(initiator, created)
		participant, created := reg.member(row[models.FieldParticipant])
		b.observeNode(participant, created)
		event, created := reg.event(row[models.FieldTopic], row[models.FieldTime])
		b.observeNode(event, created)
		space, created := reg.space(row[models.FieldVenue])
		b.observeNode(space, created)

		g.AddNode(initiator)
		g.AddNode(participant)
		g.AddNode(event)
		g.AddNode(space)

		b.addEdge(g, initiator.ID(), event.ID(), RelationInitiates)
		// Event to participant, not participant to event. Downstream renderers depend on it.
		b.addEdge(g, event.ID(), participant.ID(), RelationParticipates)
		b.addEdge(g, space.ID(), event.ID(), RelationHosts)
	}

	logger.Debugf("Community graph built: rows=%d nodes=%d edges=%d", len(rows), g.NodeCount(), g.EdgeCount())
	return g, nil
}

func (b *Builder) addEdge(g *Graph, source, target string, rel Relation) {
	g.AddEdge(source, target, rel)
	if b.recorder != nil {
		b.recorder.ObserveEdge(string(rel))
	}
}

func (b *Builder) observeRow() {
	if b.recorder != nil {
		b.recorder.ObserveRow()
	}
}

func (b *Builder) observeNode(e Entity, created bool) {
	if created && b.recorder != nil {
		b.recorder.ObserveNode(string(e.Kind()))
	}
}

// registry deduplicates entities by natural key. First occurrence wins.
type registry struct {
	members map[string]*Member
	events  map[string]*Event
	spaces  map[string]*Space
}

func newRegistry() *registry {
	return &registry{
		members: make(map[string]*Member),
		events:  make(map[string]*Event),
		spaces:  make(map[string]*Space),
	}
}

func (r *registry) member(name string) (*Member, bool) {
	if m, ok := r.members[name]; ok {
		return m, false
	}
	m := &Member{Name: name}
	r.members[name] = m
	return m, true
}

func (r *registry) event(topic, time string) (*Event, bool) {
	key := eventKey(topic, time)
	if e, ok := r.events[key]; ok {
		return e, false
	}
	e := &Event{Topic: topic, Time: time}
	r.events[key] = e
	return e, true
}

func (r *registry) space(name string) (*Space, bool) {
	if s, ok := r.spaces[name]; ok {
		return s, false
	}
	s := &Space{Name: name}
	r.spaces[name] = s
	return s, true
}
