package models

// GraphDocument is the flattened graph export consumed by visualizers.
type GraphDocument struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// NodeRecord is one exported node. Topic and Time are empty for members and spaces.
type NodeRecord struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // member, event or space
	Name  string `json:"name"`
	Topic string `json:"topic"`
	Time  string `json:"time"`
}

// EdgeRecord is one exported directed edge.
type EdgeRecord struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // initiates, participates or hosts
}
