package community

import "fmt"

// Kind discriminates entity types.
type Kind string

const (
	KindMember Kind = "member"
	KindEvent  Kind = "event"
	KindSpace  Kind = "space"
)

// Relation is the type label of a directed edge.
type Relation string

const (
	RelationInitiates    Relation = "initiates"
	RelationParticipates Relation = "participates"
	RelationHosts        Relation = "hosts"
)

// Entity is a typed graph node. It is implemented only by Member, Event and Space.
type Entity interface {
	ID() string
	Kind() Kind
	entity()
}

// Member is a community member, either initiating or participating.
type Member struct {
	Name string
}

// Event is a gathering identified by topic and time.
type Event struct {
	Topic string
	Time  string
}

// Space is a venue hosting events.
type Space struct {
	Name string
}

func (m *Member) ID() string { return memberID(m.Name) }
func (e *Event) ID() string  { return eventID(e.Topic, e.Time) }
func (s *Space) ID() string  { return spaceID(s.Name) }

func (*Member) Kind() Kind { return KindMember }
func (*Event) Kind() Kind  { return KindEvent }
func (*Space) Kind() Kind  { return KindSpace }

func (*Member) entity() {}
func (*Event) entity()  {}
func (*Space) entity()  {}

func memberID(name string) string {
	return fmt.Sprintf("member:%s", name)
}

func eventID(topic, time string) string {
	return fmt.Sprintf("event:%s", eventKey(topic, time))
}

func spaceID(name string) string {
	return fmt.Sprintf("space:%s", name)
}

func eventKey(topic, time string) string {
	return topic + "@" + time
}
