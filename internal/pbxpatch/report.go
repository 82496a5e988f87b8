package pbxpatch

import "strings"

// Section identifies one of the four manifest sections a record is added to.
type Section string

const (
	SectionBuildFile     Section = "PBXBuildFile"
	SectionFileReference Section = "PBXFileReference"
	SectionGroup         Section = "PBXGroup"
	SectionSourcesPhase  Section = "PBXSourcesBuildPhase"
)

// Sections lists the sections in the order they are patched.
var Sections = []Section{SectionBuildFile, SectionFileReference, SectionGroup, SectionSourcesPhase}

// Outcome is the result of adding one record to one section.
type Outcome string

const (
	OutcomeInserted       Outcome = "inserted"
	OutcomeAlreadyPresent Outcome = "already present"
	OutcomeAnchorNotFound Outcome = "anchor not found"
)

// Result is the outcome for a single record in a single section.
type Result struct {
	File    string  `json:"file"`
	Section Section `json:"section"`
	Outcome Outcome `json:"outcome"`
	// Anchor names what was searched for, e.g. the group name.
	Anchor string `json:"anchor"`
}

// Report collects the results of one Apply call in patch order.
type Report struct {
	Results []Result `json:"results"`
}

func (r *Report) add(file string, section Section, outcome Outcome, anchor string) {
	r.Results = append(r.Results, Result{File: file, Section: section, Outcome: outcome, Anchor: anchor})
}

// Changed reports whether anything was inserted.
func (r *Report) Changed() bool {
	return r.Count(OutcomeInserted) > 0
}

// Count returns how many results have the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Missing returns the results whose anchor could not be located.
func (r *Report) Missing() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == OutcomeAnchorNotFound {
			out = append(out, res)
		}
	}
	return out
}

// For returns the outcome recorded for file in section, or "" if none.
func (r *Report) For(file string, section Section) Outcome {
	for _, res := range r.Results {
		if res.File == file && res.Section == section {
			return res.Outcome
		}
	}
	return ""
}

// String renders one line per result.
func (r *Report) String() string {
	var b strings.Builder
	for _, res := range r.Results {
		b.WriteString(res.File)
		b.WriteString(" -> ")
		b.WriteString(string(res.Section))
		if res.Section == SectionGroup {
			b.WriteString(" (" + res.Anchor + ")")
		}
		b.WriteString(": ")
		b.WriteString(string(res.Outcome))
		b.WriteString("\n")
	}
	return b.String()
}
