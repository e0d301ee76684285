package ast

// ClassKind distinguishes the four top-level declarations a Tonel file may
// carry.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindTrait
	KindExtension
	KindPackage
)

// String returns the Tonel source spelling of a ClassKind.
func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindTrait:
		return "Trait"
	case KindExtension:
		return "Extension"
	case KindPackage:
		return "Package"
	default:
		return "Unknown"
	}
}

// ParseClassKind maps a Tonel head keyword to a ClassKind.
func ParseClassKind(s string) (ClassKind, bool) {
	switch s {
	case "Class":
		return KindClass, true
	case "Trait":
		return KindTrait, true
	case "Extension":
		return KindExtension, true
	case "Package":
		return KindPackage, true
	default:
		return 0, false
	}
}

// ClassDefinition is the file's single class/trait/extension/package head:
// a kind keyword followed by a STON metadata map.
type ClassDefinition struct {
	Pos      SourcePos
	Kind     ClassKind
	Metadata *StonMap
}

// SelectorKind distinguishes the three forms a Smalltalk selector may take.
type SelectorKind int

const (
	SelectorUnary SelectorKind = iota
	SelectorKeyword
	SelectorBinary
)

// MethodDefinition is one method in a Tonel file: optional metadata, a
// class-name/selector reference, and a raw Smalltalk method body.
type MethodDefinition struct {
	Pos           SourcePos
	Metadata      *StonMap
	ClassName     string
	IsClassMethod bool
	Selector      string
	SelectorKind  SelectorKind

	// Body is the exact substring between the method's opening and
	// matching closing bracket, with those brackets excluded.
	Body string
	// BodyStartLine and BodyStartColumn are the absolute source
	// coordinates of Body's first character, used to translate a
	// Smalltalk parse error's local position into file coordinates.
	BodyStartLine   int
	BodyStartColumn int
}

// TonelFile is the result of a successful Tonel structural parse.
type TonelFile struct {
	// Comment is the optional class-level header comment, with its
	// surrounding quotes removed and doubled quotes collapsed.
	Comment *string

	ClassDefinition ClassDefinition

	// Methods preserves textual order.
	Methods []MethodDefinition
}
