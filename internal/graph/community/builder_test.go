package community

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitygraph/pkg/models"
)

func row(initiator, participant, topic, time, venue string) models.Row {
	return models.Row{
		models.FieldInitiator:   initiator,
		models.FieldParticipant: participant,
		models.FieldTopic:       topic,
		models.FieldTime:        time,
		models.FieldVenue:       venue,
	}
}

func nodeIDs(g *Graph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID())
	}
	return ids
}

func countNode(g *Graph, id string) int {
	n := 0
	for _, e := range g.Nodes() {
		if e.ID() == id {
			n++
		}
	}
	return n
}

func countEdge(g *Graph, want Edge) int {
	n := 0
	for _, e := range g.Edges() {
		if e == want {
			n++
		}
	}
	return n
}

func TestBuildSingleRowProducesFourNodesAndThreeEdges(t *testing.T) {
	g, err := Build([]models.Row{row("Alice", "Ivan", "Intro to Blockchain", "2024-06-01 10:00", "Cafe")})
	require.NoError(t, err)

	const eventNode = "event:Intro to Blockchain@2024-06-01 10:00"
	assert.Equal(t, []string{"member:Alice", "member:Ivan", eventNode, "space:Cafe"}, nodeIDs(g))
	assert.Equal(t, []Edge{
		{Source: "member:Alice", Target: eventNode, Type: RelationInitiates},
		{Source: eventNode, Target: "member:Ivan", Type: RelationParticipates},
		{Source: "space:Cafe", Target: eventNode, Type: RelationHosts},
	}, g.Edges())

	ev, ok := g.Node(eventNode)
	require.True(t, ok)
	assert.Equal(t, KindEvent, ev.Kind())
	assert.Equal(t, &Event{Topic: "Intro to Blockchain", Time: "2024-06-01 10:00"}, ev)
}

func TestBuildDeduplicatesMembersByName(t *testing.T) {
	g, err := Build([]models.Row{
		row("Alice", "Ivan", "A", "t1", "Cafe"),
		row("Alice", "Judy", "B", "t2", "Hall"),
		row("Bob", "Alice", "C", "t3", "Cafe"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countNode(g, "member:Alice"))
	assert.Equal(t, 1, countNode(g, "space:Cafe"))
	assert.Equal(t, 10, g.NodeCount())
	assert.Equal(t, 9, g.EdgeCount())
}

func TestBuildCollapsesEventsWithSameTopicAndTime(t *testing.T) {
	g, err := Build([]models.Row{
		row("Alice", "Ivan", "Web3", "2024-06-01 10:00", "Cafe"),
		row("Bob", "Judy", "Web3", "2024-06-01 10:00", "Hall"),
	})
	require.NoError(t, err)

	const eventNode = "event:Web3@2024-06-01 10:00"
	assert.Equal(t, 1, countNode(g, eventNode))
	assert.Equal(t, 1, countEdge(g, Edge{"member:Alice", eventNode, RelationInitiates}))
	assert.Equal(t, 1, countEdge(g, Edge{"member:Bob", eventNode, RelationInitiates}))
	assert.Equal(t, 1, countEdge(g, Edge{eventNode, "member:Ivan", RelationParticipates}))
	assert.Equal(t, 1, countEdge(g, Edge{eventNode, "member:Judy", RelationParticipates}))
	assert.Equal(t, 1, countEdge(g, Edge{"space:Cafe", eventNode, RelationHosts}))
	assert.Equal(t, 1, countEdge(g, Edge{"space:Hall", eventNode, RelationHosts}))
}

// The participates edge points from the event to the participant. This is a
// fixed contract of the export format, not an accident of construction order.
func TestBuildParticipatesEdgePointsFromEventToParticipant(t *testing.T) {
	g, err := Build([]models.Row{row("Alice", "Ivan", "Intro", "t1", "Cafe")})
	require.NoError(t, err)

	for _, e := range g.Edges() {
		if e.Type != RelationParticipates {
			continue
		}
		assert.Equal(t, "event:Intro@t1", e.Source)
		assert.Equal(t, "member:Ivan", e.Target)
	}
	assert.Zero(t, countEdge(g, Edge{"member:Ivan", "event:Intro@t1", RelationParticipates}))
}

func TestBuildKeepsParallelEdgesForDuplicateRows(t *testing.T) {
	r := row("Alice", "Ivan", "Intro", "t1", "Cafe")
	g, err := Build([]models.Row{r, r})
	require.NoError(t, err)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 6, g.EdgeCount())
	assert.Equal(t, 2, countEdge(g, Edge{"member:Alice", "event:Intro@t1", RelationInitiates}))
	assert.Equal(t, 2, countEdge(g, Edge{"event:Intro@t1", "member:Ivan", RelationParticipates}))
	assert.Equal(t, 2, countEdge(g, Edge{"space:Cafe", "event:Intro@t1", RelationHosts}))
}

func TestBuildAllowsMemberSelfLoop(t *testing.T) {
	g, err := Build([]models.Row{row("Alice", "Alice", "Solo", "t1", "Home")})
	require.NoError(t, err)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 1, countEdge(g, Edge{"member:Alice", "event:Solo@t1", RelationInitiates}))
	assert.Equal(t, 1, countEdge(g, Edge{"event:Solo@t1", "member:Alice", RelationParticipates}))
}

func TestBuildAcceptsEmptyNames(t *testing.T) {
	g, err := Build([]models.Row{row("", "Ivan", "", "", "")})
	require.NoError(t, err)

	assert.Equal(t, []string{"member:", "member:Ivan", "event:@", "space:"}, nodeIDs(g))
}

func TestBuildKeepsFirstEventForCollidingNaturalKey(t *testing.T) {
	g, err := Build([]models.Row{
		row("Alice", "Ivan", "a@b", "c", "Cafe"),
		row("Bob", "Judy", "a", "b@c", "Cafe"),
	})
	require.NoError(t, err)

	ev, ok := g.Node("event:a@b@c")
	require.True(t, ok)
	assert.Equal(t, &Event{Topic: "a@b", Time: "c"}, ev)
	assert.Equal(t, 1, countNode(g, "event:a@b@c"))
}

func TestBuildSeparatesSpaceAndMemberWithSameName(t *testing.T) {
	g, err := Build([]models.Row{row("Hall", "Ivan", "Intro", "t1", "Hall")})
	require.NoError(t, err)

	member, ok := g.Node("member:Hall")
	require.True(t, ok)
	assert.Equal(t, KindMember, member.Kind())
	space, ok := g.Node("space:Hall")
	require.True(t, ok)
	assert.Equal(t, KindSpace, space.Kind())
}

func TestBuildRejectsRowWithoutParticipant(t *testing.T) {
	bad := row("Alice", "Ivan", "Intro", "t1", "Cafe")
	delete(bad, models.FieldParticipant)

	g, err := Build([]models.Row{row("Bob", "Judy", "A", "t0", "Hall"), bad})
	require.Error(t, err)
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, models.ErrMissingField))

	var inputErr *models.InputFormatError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 2, inputErr.Row)
	assert.Equal(t, models.FieldParticipant, inputErr.Field)
}

func TestBuildIsDeterministic(t *testing.T) {
	rows := []models.Row{
		row("Alice", "Ivan", "A", "t1", "Cafe"),
		row("Bob", "Ivan", "B", "t2", "Hall"),
		row("Alice", "Judy", "A", "t1", "Hall"),
	}
	first, err := Build(rows)
	require.NoError(t, err)
	second, err := Build(rows)
	require.NoError(t, err)

	assert.Equal(t, nodeIDs(first), nodeIDs(second))
	assert.Equal(t, first.Edges(), second.Edges())
}

type countingRecorder struct {
	rows  int
	nodes map[string]int
	edges map[string]int
}

func (c *countingRecorder) ObserveRow()             { c.rows++ }
func (c *countingRecorder) ObserveNode(kind string) { c.nodes[kind]++ }
func (c *countingRecorder) ObserveEdge(rel string)  { c.edges[rel]++ }

func TestBuilderReportsToRecorder(t *testing.T) {
	rec := &countingRecorder{nodes: map[string]int{}, edges: map[string]int{}}
	b := NewBuilder(BuilderOptions{Recorder: rec})

	_, err := b.Build([]models.Row{
		row("Alice", "Ivan", "A", "t1", "Cafe"),
		row("Alice", "Ivan", "A", "t1", "Cafe"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, rec.rows)
	assert.Equal(t, map[string]int{"member": 2, "event": 1, "space": 1}, rec.nodes)
	assert.Equal(t, map[string]int{"initiates": 2, "participates": 2, "hosts": 2}, rec.edges)
}
