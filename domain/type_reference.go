package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Qualification describes how a type name was written in source
type Qualification int

const (
	QualificationUnknown Qualification = iota
	QualificationUnqualified
	QualificationQualified
	QualificationFullyQualified
	QualificationRelative
	QualificationSpecialSelf
)

var qualificationNames = map[Qualification]string{
	QualificationUnknown:        "unknown",
	QualificationUnqualified:    "unqualified",
	QualificationQualified:      "qualified",
	QualificationFullyQualified: "fully_qualified",
	QualificationRelative:       "relative",
	QualificationSpecialSelf:    "special_self",
}

func (q Qualification) String() string {
	if name, ok := qualificationNames[q]; ok {
		return name
	}
	return fmt.Sprintf("qualification(%d)", int(q))
}

// MarshalJSON encodes the qualification by name
func (q Qualification) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON decodes a qualification name
func (q *Qualification) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for k, v := range qualificationNames {
		if v == s {
			*q = k
			return nil
		}
	}
	return fmt.Errorf("unknown qualification %q", s)
}

// MarshalYAML encodes the qualification by name
func (q Qualification) MarshalYAML() (interface{}, error) {
	return q.String(), nil
}

// UnknownExceptionName is the sentinel for thrown expressions whose type
// cannot be read off the syntax.
const UnknownExceptionName = "unknown exception"

// TypeReference is a type name as written in one source file.
type TypeReference struct {
	RawName       string        `json:"raw_name" yaml:"raw_name"`
	Qualification Qualification `json:"qualification" yaml:"qualification"`
}

// NewTypeReference classifies a name as written in source. A leading
// separator marks a fully qualified name and a "namespace\" prefix a relative
// one; both prefixes are stripped from the stored raw name.
func NewTypeReference(written string) TypeReference {
	name := strings.TrimSpace(written)
	switch {
	case name == "":
		return TypeReference{Qualification: QualificationUnknown}
	case strings.HasPrefix(name, `\`):
		return TypeReference{RawName: strings.TrimLeft(name, `\`), Qualification: QualificationFullyQualified}
	case len(name) > len(`namespace\`) && strings.EqualFold(name[:len(`namespace\`)], `namespace\`):
		return TypeReference{RawName: name[len(`namespace\`):], Qualification: QualificationRelative}
	case isSelfKeyword(name):
		return TypeReference{RawName: strings.ToLower(name), Qualification: QualificationSpecialSelf}
	case strings.Contains(name, `\`):
		return TypeReference{RawName: name, Qualification: QualificationQualified}
	default:
		return TypeReference{RawName: name, Qualification: QualificationUnqualified}
	}
}

// UnknownException returns the sentinel reference used for untyped throws.
func UnknownException() TypeReference {
	return TypeReference{RawName: UnknownExceptionName, Qualification: QualificationUnknown}
}

func (r TypeReference) String() string {
	return r.RawName
}

func isSelfKeyword(name string) bool {
	switch strings.ToLower(name) {
	case "self", "static", "parent":
		return true
	}
	return false
}
