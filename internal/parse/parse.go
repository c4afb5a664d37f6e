// Package parse implements the parser contract C5 drives (spec §6.1): a
// finite, non-restartable, cancellable stream of MemberRecords read from
// one .NET XML documentation file.
//
// The wire format (compiler-emitted XML doc comments) and the exact
// identifier-to-namespace split are explicitly the parser's own business
// per the spec ("the details of the XML parser... out of scope"), so this
// file takes the simplest defensible reading of the format: <member
// name="M:..."> elements under <members>, documentation text read via
// encoding/xml's innerxml capture and cleaned of nested markup by regexp
// rather than a full mixed-content walk. No third-party XML library
// appears anywhere in the retrieval pack this was built from, so
// encoding/xml is used directly (see DESIGN.md).
package parse

import (
	"context"
	"encoding/xml"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jpl-au/apilens/internal/apperr"
	"github.com/jpl-au/apilens/internal/model"
	"github.com/jpl-au/apilens/internal/scan"
)

// ParseFileStream parses path and streams one MemberRecord per <member>
// element. The records channel closes when parsing finishes, fails, or
// ctx is cancelled; at most one error is ever sent on errs before it
// closes. override, when non-nil, replaces the packaging context the
// parser would otherwise derive from path (spec §6.1).
func ParseFileStream(ctx context.Context, path string, override *model.PackageEntry) (<-chan model.MemberRecord, <-chan error) {
	records := make(chan model.MemberRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		f, err := os.Open(path)
		if err != nil {
			errs <- apperr.Parse(path, err)
			return
		}
		defer f.Close()

		pkg := packagingContext(path, override)
		normalisedPath := normalisePath(path)

		dec := xml.NewDecoder(f)
		for {
			select {
			case <-ctx.Done():
				errs <- apperr.Cancelled()
				return
			default:
			}

			tok, err := dec.Token()
			if err == io.EOF {
				return
			}
			if err != nil {
				errs <- apperr.Parse(path, err)
				return
			}

			se, ok := tok.(xml.StartElement)
			if !ok || se.Name.Local != "member" {
				continue
			}

			var raw memberXML
			if err := dec.DecodeElement(&raw, &se); err != nil {
				errs <- apperr.Parse(path, err)
				return
			}

			record, ok := toMemberRecord(raw, normalisedPath, pkg)
			if !ok {
				continue
			}

			select {
			case records <- record:
			case <-ctx.Done():
				errs <- apperr.Cancelled()
				return
			}
		}
	}()

	return records, errs
}

func packagingContext(path string, override *model.PackageEntry) model.PackageEntry {
	if override != nil {
		return *override
	}
	if entry, ok := scan.ProjectAnyPath(path); ok {
		return entry
	}
	return model.PackageEntry{}
}

func normalisePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

type memberXML struct {
	Name       string         `xml:"name,attr"`
	Summary    rawXML         `xml:"summary"`
	Remarks    rawXML         `xml:"remarks"`
	Returns    rawXML         `xml:"returns"`
	Params     []paramXML     `xml:"param"`
	Exceptions []exceptionXML `xml:"exception"`
	Examples   []exampleXML   `xml:"example"`
	SeeAlso    []refXML       `xml:"seealso"`
}

type rawXML struct {
	Raw string `xml:",innerxml"`
}

type paramXML struct {
	Name string `xml:"name,attr"`
	Raw  string `xml:",innerxml"`
}

type exceptionXML struct {
	Cref string `xml:"cref,attr"`
	Raw  string `xml:",innerxml"`
}

type exampleXML struct {
	Raw  string `xml:",innerxml"`
	Code string `xml:"code"`
}

type refXML struct {
	Cref string `xml:"cref,attr"`
}

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	crefInText = regexp.MustCompile(`cref="([^"]+)"`)
	wsPattern  = regexp.MustCompile(`\s+`)
)

// innerText strips nested markup from an innerxml capture and collapses
// whitespace, giving a best-effort plain-text reading of mixed content
// such as "<summary>Spins the <see cref="T:X"/> gearbox.</summary>".
func innerText(raw string) string {
	stripped := tagPattern.ReplaceAllString(raw, " ")
	return strings.TrimSpace(wsPattern.ReplaceAllString(stripped, " "))
}

// inlineCrossRefs finds every cref="..." attribute inside raw (e.g. from
// <see>/<seealso> tags embedded in documentation text).
func inlineCrossRefs(raw string, kind model.XRefKind) []model.XRef {
	matches := crefInText.FindAllStringSubmatch(raw, -1)
	refs := make([]model.XRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, model.XRef{TargetID: m[1], Kind: kind})
	}
	return refs
}

func toMemberRecord(raw memberXML, sourcePath string, pkg model.PackageEntry) (model.MemberRecord, bool) {
	kind, base, ok := splitID(raw.Name)
	if !ok {
		return model.MemberRecord{}, false
	}
	name, namespace := splitIdentifier(base, kind)

	id := raw.Name
	if pkg.PackageID != "" {
		id = raw.Name + "|" + pkg.PackageID + "|" + pkg.Version + "|" + pkg.Framework
	}

	record := model.MemberRecord{
		ID:              id,
		Kind:            kind,
		Name:            name,
		FullName:        base,
		Namespace:       namespace,
		Summary:         innerText(raw.Summary.Raw),
		Remarks:         innerText(raw.Remarks.Raw),
		Returns:         innerText(raw.Returns.Raw),
		PackageID:       pkg.PackageID,
		PackageVersion:  pkg.Version,
		TargetFramework: pkg.Framework,
		SourceFilePath:  sourcePath,
		IsFromCache:     pkg.PackageID != "",
	}

	var crossRefs []model.XRef
	crossRefs = append(crossRefs, inlineCrossRefs(raw.Summary.Raw, model.XRefSee)...)
	crossRefs = append(crossRefs, inlineCrossRefs(raw.Remarks.Raw, model.XRefSee)...)

	var seeAlsoText []string
	for _, sa := range raw.SeeAlso {
		if sa.Cref == "" {
			continue
		}
		crossRefs = append(crossRefs, model.XRef{TargetID: sa.Cref, Kind: model.XRefSeeAlso})
		seeAlsoText = append(seeAlsoText, sa.Cref)
	}
	record.SeeAlso = strings.Join(seeAlsoText, " ")

	for _, p := range raw.Params {
		record.Parameters = append(record.Parameters, model.ParameterRecord{
			Name:        p.Name,
			Description: innerText(p.Raw),
		})
	}

	for _, e := range raw.Exceptions {
		excType := stripCrefPrefix(e.Cref)
		record.Exceptions = append(record.Exceptions, model.ExceptionRecord{
			Type:      excType,
			Condition: innerText(e.Raw),
		})
		if e.Cref != "" {
			crossRefs = append(crossRefs, model.XRef{TargetID: e.Cref, Kind: model.XRefException})
		}
	}

	for _, ex := range raw.Examples {
		codeless := strings.Replace(ex.Raw, ex.Code, "", 1)
		record.CodeExamples = append(record.CodeExamples, model.ExampleRecord{
			Code:        innerText(ex.Code),
			Description: innerText(codeless),
		})
	}

	record.CrossReferences = crossRefs
	record.Complexity = &model.Complexity{
		ParameterCount: len(record.Parameters),
	}

	return record, true
}

// splitID splits a raw xmldoc member name ("M:Namespace.Type.Method(Args)")
// into its Kind and the identifier that follows the two-character prefix.
func splitID(raw string) (model.Kind, string, bool) {
	if len(raw) < 2 || raw[1] != ':' {
		return "", "", false
	}
	var kind model.Kind
	switch raw[0] {
	case 'T':
		kind = model.KindType
	case 'M':
		kind = model.KindMethod
	case 'P':
		kind = model.KindProperty
	case 'F':
		kind = model.KindField
	case 'E':
		kind = model.KindEvent
	default:
		return "", "", false
	}
	return kind, raw[2:], true
}

// splitIdentifier heuristically splits a dotted identifier into its final
// segment (name) and everything before it (namespace). For non-type
// members the declaring type is folded into the namespace, matching the
// fact that the parser has no symbol table to distinguish the two.
func splitIdentifier(base string, kind model.Kind) (name, namespace string) {
	bare := base
	if i := strings.IndexByte(bare, '('); i >= 0 {
		bare = bare[:i]
	}
	segments := strings.Split(bare, ".")
	if len(segments) == 1 {
		return segments[0], ""
	}
	name = segments[len(segments)-1]
	namespace = strings.Join(segments[:len(segments)-1], ".")
	return name, namespace
}

func stripCrefPrefix(cref string) string {
	if len(cref) > 2 && cref[1] == ':' {
		return cref[2:]
	}
	return cref
}
