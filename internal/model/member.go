// Package model defines the logical entities ApiLens indexes and queries:
// documented API members, their parameters/exceptions/examples/cross-
// references, and the packaging context (package/version/framework) they
// were discovered in.
package model

import "time"

// Kind identifies what a MemberRecord documents.
type Kind string

const (
	KindType     Kind = "Type"
	KindMethod   Kind = "Method"
	KindProperty Kind = "Property"
	KindField    Kind = "Field"
	KindEvent    Kind = "Event"
)

// XRefKind enumerates the relationship a cross-reference expresses.
type XRefKind string

const (
	XRefSee               XRefKind = "See"
	XRefSeeAlso           XRefKind = "SeeAlso"
	XRefParam             XRefKind = "Param"
	XRefReturn            XRefKind = "Return"
	XRefException         XRefKind = "Exception"
	XRefInheritance       XRefKind = "Inheritance"
	XRefParameter         XRefKind = "Parameter"
	XRefReturnType        XRefKind = "ReturnType"
	XRefGenericConstraint XRefKind = "GenericConstraint"
)

// ParameterRecord describes one parameter of a method or indexer.
type ParameterRecord struct {
	Name         string
	Type         string
	Position     int
	IsOptional   bool
	IsParams     bool
	IsOut        bool
	IsRef        bool
	DefaultValue string // empty means absent
	Description  string
}

// ExceptionRecord documents one exception a member may throw.
type ExceptionRecord struct {
	Type      string
	Condition string // empty means absent
}

// ExampleRecord is one code example attached to a member's documentation.
type ExampleRecord struct {
	Language    string
	Code        string
	Description string // empty means absent
}

// XRef is an opaque cross-reference to another documented identifier.
// Resolution of TargetID into an actual document is the read-side query's
// concern; ApiLens stores and indexes it as a plain string.
type XRef struct {
	TargetID string
	Kind     XRefKind
}

// AttributeRecord is a declarative attribute/annotation applied to a member.
type AttributeRecord struct {
	Type       string
	Properties map[string]string
}

// Complexity holds the optional structural metrics of a member.
type Complexity struct {
	ParameterCount          int
	CyclomaticComplexity    int
	DocumentationLineCount  int
}

// MemberRecord is one documented API member in one (package, version,
// framework) context. See spec §3.1 for the full invariant list.
type MemberRecord struct {
	ID        string
	Kind      Kind
	Name      string
	FullName  string
	Namespace string
	Assembly  string

	Summary string
	Remarks string
	Returns string
	SeeAlso string

	Parameters      []ParameterRecord
	Exceptions      []ExceptionRecord
	CodeExamples    []ExampleRecord
	CrossReferences []XRef
	Attributes      []AttributeRecord
	Complexity      *Complexity

	// Method modifiers. Only meaningful when Kind == KindMethod.
	IsStatic    bool
	IsAsync     bool
	IsExtension bool
	IsVirtual   bool
	IsAbstract  bool
	IsOverride  bool
	IsSealed    bool

	// Packaging context.
	PackageID       string
	PackageVersion  string
	TargetFramework string
	SourceFilePath  string
	IsFromCache     bool
	ContentHash     string
	IndexedAt       time.Time
}

// EmptyFileMarkerDocType is the documentType value stored for sentinel
// documents representing an XML file that parsed to zero members (§3.1).
const EmptyFileMarkerDocType = "EmptyXmlFile"

// EmptyFileMarkerID builds the canonical id for an empty-file marker.
func EmptyFileMarkerID(normalizedPath string) string {
	return "EMPTY_FILE|" + normalizedPath
}

// EmptyFileMarker is the sentinel document produced whenever parsing an XML
// file yields zero members.
type EmptyFileMarker struct {
	ID             string
	SourceFilePath string
}

// NewEmptyFileMarker builds the marker for a given normalised path.
func NewEmptyFileMarker(normalizedPath string) EmptyFileMarker {
	return EmptyFileMarker{
		ID:             EmptyFileMarkerID(normalizedPath),
		SourceFilePath: normalizedPath,
	}
}

// SentinelEndOfStreamID is the well-known id of the end-of-stream sentinel
// document the C5 pipeline writes to its channel once every parser has
// finished (§4.5).
const SentinelEndOfStreamID = "SENTINEL_END_OF_STREAM"

// PackageEntry is one documented XML file discovered in the package cache
// by C7 (spec §3.1, §6.1/§6.2).
type PackageEntry struct {
	PackageID             string
	Version               string
	Framework             string
	XMLDocumentationPath  string
	ContentHash           string // optional, empty if unknown
}

// IndexSnapshot is the derived view of index state exposed by C4 and
// consumed by C6 (spec §3.1).
type IndexSnapshot struct {
	// PackagesByIDWithFramework maps packageId to the set of (version,
	// framework) pairs currently indexed for it.
	PackagesByIDWithFramework map[string]map[VersionFramework]struct{}
	IndexedXMLPaths           map[string]struct{}
	EmptyXMLPaths             map[string]struct{}
	TotalDocuments            int
}

// VersionFramework is a (version, framework) pair, used as a map key.
type VersionFramework struct {
	Version   string
	Framework string
}

// NewIndexSnapshot returns an IndexSnapshot with initialised maps.
func NewIndexSnapshot() IndexSnapshot {
	return IndexSnapshot{
		PackagesByIDWithFramework: make(map[string]map[VersionFramework]struct{}),
		IndexedXMLPaths:           make(map[string]struct{}),
		EmptyXMLPaths:             make(map[string]struct{}),
	}
}

// Add records that packageId is present with the given (version, framework).
func (s *IndexSnapshot) Add(packageID, version, framework string) {
	if packageID == "" {
		return
	}
	vf := VersionFramework{Version: version, Framework: framework}
	set, ok := s.PackagesByIDWithFramework[packageID]
	if !ok {
		set = make(map[VersionFramework]struct{})
		s.PackagesByIDWithFramework[packageID] = set
	}
	set[vf] = struct{}{}
}

// Has reports whether (packageId, version, framework) is present. A missing
// framework in the snapshot is treated as "unknown" per spec §4.6 step 5.
func (s IndexSnapshot) Has(packageID, version, framework string) bool {
	set, ok := s.PackagesByIDWithFramework[packageID]
	if !ok {
		return false
	}
	if framework == "" {
		framework = "unknown"
	}
	if _, ok := set[VersionFramework{Version: version, Framework: framework}]; ok {
		return true
	}
	// Legacy entries recorded without a framework are treated as "unknown".
	if framework == "unknown" {
		if _, ok := set[VersionFramework{Version: version, Framework: ""}]; ok {
			return true
		}
	}
	return false
}
