// Package build implements C3, the document builder: it projects one
// logical model.MemberRecord into the flat field map that C4 indexes
// through bleve (spec §4.3).
package build

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jpl-au/apilens/internal/model"
)

// ErrNilRecord is returned by Build when given a nil record (spec §4.3:
// "rejects a null record").
var ErrNilRecord = errors.New("build: nil MemberRecord")

// Doc is the flat field map indexed by C4. A multi-valued field holds a
// string while it has one value and a []string once it has more; every
// other field is a single string, or an int64 for the complexity counts.
type Doc map[string]any

func (d Doc) appendString(field, value string) {
	switch existing := d[field].(type) {
	case nil:
		d[field] = value
	case string:
		d[field] = []string{existing, value}
	case []string:
		d[field] = append(existing, value)
	}
}

func (d Doc) setIfNonBlank(field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d[field] = value
}

// Build projects a MemberRecord into an index document. It is the only
// place the full field catalog is assembled, so the `content` field is
// built exactly once here (spec §4.3 closing note).
func Build(r *model.MemberRecord) (Doc, error) {
	if r == nil {
		return nil, ErrNilRecord
	}

	d := make(Doc)

	d["id"] = r.ID
	d["memberType"] = string(r.Kind)
	d["memberTypeFacet"] = string(r.Kind)
	d["name"] = r.Name
	d["fullName"] = r.FullName
	d["assembly"] = r.Assembly
	d["namespace"] = r.Namespace
	d["documentType"] = "Member"

	if dt := declaringType(r); dt != "" {
		d["declaringType"] = dt
	}

	d["nameText"] = r.Name
	d["fullNameText"] = r.FullName
	d["namespaceText"] = r.Namespace

	d["nameNormalized"] = strings.ToLower(r.Name)
	d["fullNameNormalized"] = strings.ToLower(r.FullName)
	d["namespaceNormalized"] = strings.ToLower(r.Namespace)

	if kindField := kindSearchField(r.Kind); kindField != "" {
		d[kindField] = r.Name
	}

	summary := Sanitize(r.Summary)
	remarks := Sanitize(r.Remarks)
	returns := Sanitize(r.Returns)
	seeAlso := Sanitize(r.SeeAlso)
	d.setIfNonBlank("summary", summary)
	d.setIfNonBlank("remarks", remarks)
	d.setIfNonBlank("returns", returns)
	d.setIfNonBlank("seeAlso", seeAlso)

	for _, x := range r.CrossReferences {
		if x.TargetID == "" {
			continue
		}
		d.appendString("crossref", x.TargetID)
		d.appendString("crossref_"+string(x.Kind), x.TargetID)
	}

	for _, t := range relatedTypes(r) {
		d.appendString("relatedType", t)
	}

	for _, ex := range r.CodeExamples {
		if strings.TrimSpace(ex.Code) == "" {
			continue
		}
		d.appendString("codeExample", ex.Code)
		if ex.Description != "" {
			d.appendString("codeExampleDescription", ex.Description)
		}
	}

	for _, exc := range r.Exceptions {
		if exc.Type == "" {
			continue
		}
		d.appendString("exceptionType", exc.Type)
		d.appendString("exceptionTypeText", exc.Type)
		d.appendString("exceptionSimpleName", lastDotSegment(exc.Type))
		if exc.Condition != "" {
			d.appendString("exceptionCondition", exc.Condition)
		}
	}

	for _, a := range r.Attributes {
		if a.Type == "" {
			continue
		}
		d.appendString("attribute", a.Type)
	}

	for _, p := range r.Parameters {
		d.appendString("parameter", p.Type+" "+p.Name)
		if p.Description != "" {
			d.appendString("parameterDescription", p.Description)
		}
	}

	if r.Kind == model.KindMethod {
		d["isStatic"] = boolString(r.IsStatic)
		d["isAsync"] = boolString(r.IsAsync)
		d["isExtension"] = boolString(r.IsExtension)
	}

	if r.Complexity != nil {
		d["parameterCount"] = int64(r.Complexity.ParameterCount)
		d["cyclomaticComplexity"] = int64(r.Complexity.CyclomaticComplexity)
		d["documentationLineCount"] = int64(r.Complexity.DocumentationLineCount)
	}

	if r.PackageID != "" || r.PackageVersion != "" || r.TargetFramework != "" {
		d.setIfNonBlank("packageId", r.PackageID)
		d.setIfNonBlank("packageVersion", r.PackageVersion)
		d.setIfNonBlank("targetFramework", r.TargetFramework)
		if r.PackageID != "" {
			d["packageIdNormalized"] = strings.ToLower(r.PackageID)
		}
		d.setIfNonBlank("versionSearch", r.PackageVersion)
	}
	d["isFromNuGetCache"] = boolString(r.IsFromCache)
	d["sourceFilePath"] = r.SourceFilePath

	if r.ContentHash != "" {
		d["contentHash"] = r.ContentHash
	}

	d["content"] = buildContent(r, summary, remarks, returns, seeAlso)

	return d, nil
}

// declaringType derives the declaring type per spec §3.1: everything
// before the last dot in fullName after stripping the parameter list and
// backtick-arity suffix. Only meaningful for non-Type kinds.
func declaringType(r *model.MemberRecord) string {
	if r.Kind == model.KindType {
		return ""
	}
	full := r.FullName
	if i := strings.IndexByte(full, '('); i >= 0 {
		full = full[:i]
	}
	if i := strings.IndexByte(full, '`'); i >= 0 {
		full = full[:i]
	}
	i := strings.LastIndexByte(full, '.')
	if i < 0 {
		return ""
	}
	return full[:i]
}

func kindSearchField(k model.Kind) string {
	switch k {
	case model.KindType:
		return "typeSearch"
	case model.KindMethod:
		return "methodSearch"
	case model.KindProperty:
		return "propertySearch"
	case model.KindField:
		return "fieldSearch"
	case model.KindEvent:
		return "eventSearch"
	default:
		return ""
	}
}

func lastDotSegment(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func boolString(b bool) string {
	return strconv.FormatBool(b)
}

// relatedTypes collects the type identifiers mentioned anywhere in the
// record besides its own name/namespace: parameter types, exception
// types, and XRefs that denote a type relationship (inheritance or
// generic constraints). This is the builder's interpretation of the
// spec's "related types" field — exposed to broaden search from a member
// to every type it touches.
func relatedTypes(r *model.MemberRecord) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, p := range r.Parameters {
		add(p.Type)
	}
	for _, e := range r.Exceptions {
		add(e.Type)
	}
	for _, x := range r.CrossReferences {
		if x.Kind == model.XRefInheritance || x.Kind == model.XRefGenericConstraint {
			add(x.TargetID)
		}
	}
	return out
}

// buildContent assembles the single `content` field, concatenating in the
// exact order specified by spec §4.3, skipping blanks.
func buildContent(r *model.MemberRecord, summary, remarks, returns, seeAlso string) string {
	var b strings.Builder
	write := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}

	write(r.Name)
	write(r.FullName)
	write(r.Namespace)
	write(summary)
	write(remarks)
	for _, ex := range r.CodeExamples {
		write(ex.Description)
		write(ex.Code)
	}
	for _, exc := range r.Exceptions {
		write(exc.Type)
		write(exc.Condition)
	}
	for _, p := range r.Parameters {
		write(p.Name)
		write(p.Type)
		write(p.Description)
	}
	write(returns)
	write(seeAlso)

	return b.String()
}
