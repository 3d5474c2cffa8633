// internal/matching/nickname/index.go

// Package nickname builds the given-name equivalence index from a curated
// relationship dataset.
package nickname

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	apperrors "people-matcher/internal/common/errors"
)

// RelationshipNickname is the only relationship kind that contributes links.
const RelationshipNickname = "has_nickname"

// Row is one dataset entry declaring a relationship between two given names.
type Row struct {
	NameA        string
	Relationship string
	NameB        string
}

// Index maps a lowercase given name to the set of names linked to it.
// It is built once and read-only afterwards.
type Index struct {
	links map[string]map[string]bool
}

// NewIndex builds the index from dataset rows. Links are symmetric, and a
// single propagation pass unions every node's set with its neighbors' sets,
// so two names linked to a common third become linked to each other. This is
// a deliberate single-hop approximation, not full transitive closure; the
// dataset is hand-curated and shallow, and deeper closure would change
// matching outcomes on existing data.
func NewIndex(rows []Row) *Index {
	adjacency := make(map[string]map[string]bool)
	link := func(a, b string) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[string]bool)
		}
		adjacency[a][b] = true
	}

	for _, row := range rows {
		if row.Relationship != RelationshipNickname {
			continue
		}
		a := strings.ToLower(strings.TrimSpace(row.NameA))
		b := strings.ToLower(strings.TrimSpace(row.NameB))
		if a == "" || b == "" || a == b {
			continue
		}
		link(a, b)
		link(b, a)
	}

	// One propagation pass over a snapshot of the direct links.
	merged := make(map[string]map[string]bool, len(adjacency))
	for name, neighbors := range adjacency {
		set := make(map[string]bool, len(neighbors))
		for n := range neighbors {
			set[n] = true
		}
		for n := range neighbors {
			for second := range adjacency[n] {
				if second != name {
					set[second] = true
				}
			}
		}
		merged[name] = set
	}

	return &Index{links: merged}
}

// NewEmptyIndex returns an index that reports no links for any pair.
func NewEmptyIndex() *Index {
	return &Index{links: map[string]map[string]bool{}}
}

// AreLinked reports whether the two given names are equal or linked.
func (idx *Index) AreLinked(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return idx.links[a][b]
}

// Linked returns the set of names linked to the given name, for inspection.
func (idx *Index) Linked(name string) []string {
	set := idx.links[strings.ToLower(strings.TrimSpace(name))]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}

// Size returns the number of indexed names.
func (idx *Index) Size() int {
	return len(idx.links)
}

// Load reads a CSV dataset of (name, relationship, name) rows and builds the
// index. On any load failure it returns an empty index together with a
// DatasetLoadFailed error so the caller can log and proceed degraded;
// matching continues with reduced name recall.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return NewEmptyIndex(), apperrors.NewDatasetLoadFailedError(path, err)
	}
	defer f.Close()

	rows, err := parseRows(f)
	if err != nil {
		return NewEmptyIndex(), apperrors.NewDatasetLoadFailedError(path, err)
	}
	return NewIndex(rows), nil
}

func parseRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			NameA:        record[0],
			Relationship: record[1],
			NameB:        record[2],
		})
	}
	return rows, nil
}
