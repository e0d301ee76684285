package ast

// StonKind distinguishes the shapes a STON value may take. The core only
// validates syntactic shape; none of these kinds are semantically
// interpreted (a #Date value, for instance, is just a StonObject whose tag
// happens to be "Date").
type StonKind int

const (
	StonString StonKind = iota
	StonSymbol
	StonNumber
	StonBool
	StonNil
	StonList
	StonMapKind
	StonAssociation
	StonObject
	StonReference
)

// StonEntry is one key/value pair of a StonMap. Insertion order is
// preserved for round-tripping, per the data model, but carries no semantic
// weight.
type StonEntry struct {
	Key   StonValue
	Value StonValue
}

// StonMap is an ordered STON map, { key: value, ... }.
type StonMap struct {
	Pos     SourcePos
	Entries []StonEntry
}

// Get returns the value associated with a string or symbol key, if present.
func (m *StonMap) Get(key string) (StonValue, bool) {
	if m == nil {
		return StonValue{}, false
	}
	for _, e := range m.Entries {
		if s, ok := e.Key.Scalar.(string); ok && s == key {
			return e.Value, true
		}
	}
	return StonValue{}, false
}

// StonValue is a syntactic STON value: a tagged union over the shapes STON
// allows. Exactly one of Scalar, List, Map, Association, or Object is
// meaningful, selected by Kind.
type StonValue struct {
	Pos  SourcePos
	Kind StonKind

	// Scalar holds the payload for StonString, StonSymbol (string),
	// StonNumber (int64 or float64), StonBool (bool), or StonReference
	// (int64 object index). Unused for StonNil.
	Scalar any

	// List holds the payload for StonList: [ v1, v2, ... ].
	List []StonValue

	// Map holds the payload for StonMapKind.
	Map *StonMap

	// Association holds the single key/value pair for StonAssociation,
	// used when a map value is itself a `key : value` association.
	Association *StonEntry

	// ObjectTag and ObjectBody hold the payload for StonObject:
	// ClassTag(list-or-map body), e.g. #Date { #year : 2020 } or
	// Point[1, 2].
	ObjectTag  string
	ObjectBody *StonValue
}
