package graphjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"communitygraph/internal/graph/community"
	"communitygraph/pkg/models"
)

// Document flattens a graph into its export form.
// Events report their topic as name; members and spaces leave topic and time empty.
func Document(g *community.Graph) (*models.GraphDocument, error) {
	doc := &models.GraphDocument{
		Nodes: make([]models.NodeRecord, 0, g.NodeCount()),
		Edges: make([]models.EdgeRecord, 0, g.EdgeCount()),
	}

	for _, e := range g.Nodes() {
		rec := models.NodeRecord{ID: e.ID(), Type: string(e.Kind())}
		switch v := e.(type) {
		case *community.Member:
			rec.Name = v.Name
		case *community.Event:
			rec.Name = v.Topic
			rec.Topic = v.Topic
			rec.Time = v.Time
		case *community.Space:
			rec.Name = v.Name
		default:
			return nil, &models.SerializationError{Value: rec.ID, Err: fmt.Errorf("unknown entity type %T", e)}
		}
		if err := checkUTF8(rec.ID, rec.Name, rec.Topic, rec.Time); err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, rec)
	}

	for _, e := range g.Edges() {
		if err := checkUTF8(e.Source, e.Target); err != nil {
			return nil, err
		}
		doc.Edges = append(doc.Edges, models.EdgeRecord{
			Source: e.Source,
			Target: e.Target,
			Type:   string(e.Type),
		})
	}

	return doc, nil
}

// Serialize renders a graph as an indented JSON document.
func Serialize(g *community.Graph) ([]byte, error) {
	doc, err := Document(g)
	if err != nil {
		return nil, err
	}
	return Encode(doc)
}

// Encode renders a document with two-space indentation and literal non-ASCII text.
func Encode(doc *models.GraphDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, &models.SerializationError{Err: err}
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Parse decodes a serialized document.
func Parse(data []byte) (*models.GraphDocument, error) {
	var doc models.GraphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode graph document: %w", err)
	}
	return &doc, nil
}

func checkUTF8(values ...string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return &models.SerializationError{Value: v, Err: fmt.Errorf("invalid UTF-8")}
		}
	}
	return nil
}
