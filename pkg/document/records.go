package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bubbleset/pkg/core/sets"
	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
)

// Input formats accepted by [ReadRecords].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Record is the serialized form of [sets.Record].
type Record struct {
	ID     string         `json:"id" yaml:"id" bson:"id"`
	Label  string         `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Sets   []string       `json:"sets" yaml:"sets" bson:"sets"`
	Value  float64        `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
	Key    string         `json:"key,omitempty" yaml:"key,omitempty" bson:"key,omitempty"`
	X      float64        `json:"x" yaml:"x" bson:"x"`
	Y      float64        `json:"y" yaml:"y" bson:"y"`
	Radius float64        `json:"radius,omitempty" yaml:"radius,omitempty" bson:"radius,omitempty"`
	Placed bool           `json:"placed,omitempty" yaml:"placed,omitempty" bson:"placed,omitempty"`
}

// recordFile is the object form of a record file.
type recordFile struct {
	Records []Record `json:"records" yaml:"records"`
}

// FormatFromPath infers the record format from a file extension.
// Anything that is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadRecords decodes records from r in the given format. Set names are
// validated and missing IDs are filled with UUIDs. ReadRecords does not close r.
func ReadRecords(r io.Reader, format string) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	var records []Record
	switch format {
	case FormatJSON, "":
		records, err = decodeJSON(data)
	case FormatYAML:
		records, err = decodeYAML(data)
	default:
		return nil, bserrors.New(bserrors.ErrCodeInvalidFormat, "unsupported record format %q", format)
	}
	if err != nil {
		return nil, bserrors.Wrap(bserrors.ErrCodeInvalidRecords, err, "decode %s records", format)
	}

	if err := PrepareRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

// PrepareRecords fills missing IDs with UUIDs and validates set names.
func PrepareRecords(records []Record) error {
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		if err := bserrors.ValidateMemberships(records[i].Sets); err != nil {
			return fmt.Errorf("record %s: %w", records[i].ID, err)
		}
	}
	return nil
}

func decodeJSON(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Record
		err := json.Unmarshal(data, &list)
		return list, err
	}
	var f recordFile
	err := json.Unmarshal(data, &f)
	return f.Records, err
}

func decodeYAML(data []byte) ([]Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []Record
		err := root.Decode(&list)
		return list, err
	}
	var f recordFile
	err := root.Decode(&f)
	return f.Records, err
}

// ImportRecords reads a record file, choosing the format from its extension.
func ImportRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ToSets converts a serialized record into a layout record.
func (r Record) ToSets() *sets.Record {
	return &sets.Record{
		ID:         r.ID,
		Label:      r.Label,
		Sets:       r.Sets,
		Value:      r.Value,
		Meta:       r.Meta,
		Key:        r.Key,
		X:          r.X,
		Y:          r.Y,
		Radius:     r.Radius,
		Positioned: r.Placed,
	}
}

// FromSets converts a layout record into its serialized form.
func FromSets(r *sets.Record) Record {
	return Record{
		ID:     r.ID,
		Label:  r.Label,
		Sets:   r.Sets,
		Value:  r.Value,
		Meta:   r.Meta,
		Key:    r.Key,
		X:      r.X,
		Y:      r.Y,
		Radius: r.Radius,
		Placed: r.Positioned,
	}
}

// ToSetsAll converts a slice of serialized records.
func ToSetsAll(records []Record) []*sets.Record {
	out := make([]*sets.Record, len(records))
	for i, r := range records {
		out[i] = r.ToSets()
	}
	return out
}
