// Package pbxpatch registers source files in an Xcode project manifest by
// inserting text at literal anchors. The manifest is never parsed into an
// object model; every insertion point is located by a marker comment or a
// declaration pattern, and only the first match of each is used.
package pbxpatch

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	buildFileEndMarker     = "/* End PBXBuildFile section */"
	fileReferenceEndMarker = "/* End PBXFileReference section */"
)

var sourcesPhasePattern = regexp.MustCompile(`isa = PBXSourcesBuildPhase;\n\s+buildActionMask = \d+;\n\s+files = \(\n`)

func groupPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`/\* ` + regexp.QuoteMeta(name) + ` \*/ = \{\n\s+isa = PBXGroup;\n\s+children = \(\n`)
}

func buildFilePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`([0-9A-F]{24}) /\* ` + regexp.QuoteMeta(name) + ` in Sources \*/ = \{isa = PBXBuildFile; fileRef = ([0-9A-F]{24})`)
}

func fileReferencePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`([0-9A-F]{24}) /\* ` + regexp.QuoteMeta(name) + ` \*/ = \{isa = PBXFileReference;`)
}

// Options controls how records are added.
type Options struct {
	// AllowDuplicates skips the already-present checks. Every run then adds
	// a fresh set of entries, even for files the manifest already lists.
	AllowDuplicates bool

	// Logger receives a debug line per section outcome. Nil means no logging.
	Logger *zap.Logger
}

// Patcher applies file records to manifest text.
type Patcher struct {
	opts Options
	log  *zap.Logger
}

// New creates a Patcher.
func New(opts Options) *Patcher {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Patcher{opts: opts, log: log}
}

// Apply adds every record to the build-file, file-reference, group and
// sources-phase sections of text. It returns the new text and a report with
// one result per record and section. A missing anchor is reported, not
// returned as an error; errors are reserved for invalid records.
func (p *Patcher) Apply(text string, records []FileRecord) (string, *Report, error) {
	if len(records) == 0 {
		return text, nil, fmt.Errorf("no files to add")
	}
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return text, nil, err
		}
		if seen[r.Name] {
			return text, nil, fmt.Errorf("file %s is listed more than once", r.Name)
		}
		seen[r.Name] = true
	}

	entries, err := p.assignIDs(text, records)
	if err != nil {
		return text, nil, err
	}

	report := &Report{}
	text = p.insertBeforeMarker(text, buildFileEndMarker, SectionBuildFile, entries, report,
		func(e entry) bool { return e.hasBuildFile },
		entry.buildFileLine)
	text = p.insertBeforeMarker(text, fileReferenceEndMarker, SectionFileReference, entries, report,
		func(e entry) bool { return e.hasFileRef },
		entry.fileReferenceLine)

	for _, group := range groupOrder(entries) {
		var members []entry
		for _, e := range entries {
			if e.Group == group {
				members = append(members, e)
			}
		}
		text = p.insertIntoList(text, groupPattern(group), SectionGroup, group, members, report,
			func(e entry) string { return e.RefID + " /* " + e.Name + " */" },
			entry.groupChildLine)
	}

	text = p.insertIntoList(text, sourcesPhasePattern, SectionSourcesPhase, "PBXSourcesBuildPhase", entries, report,
		func(e entry) string { return e.BuildID + " /* " + e.buildComment() + " */" },
		entry.sourcesPhaseLine)

	return text, report, nil
}

// assignIDs gives every record its identifiers. Unless duplicates are
// allowed, a file reference is reused only when it is already a child of the
// record's group, and a build file only when it points at that reference.
// Same-named files registered elsewhere, e.g. in another target, get fresh IDs.
func (p *Patcher) assignIDs(text string, records []FileRecord) ([]entry, error) {
	gen := NewIDGenerator(ExistingIDs(text)...)
	phase, _ := listBody(text, sourcesPhasePattern)
	entries := make([]entry, 0, len(records))
	for _, r := range records {
		e := entry{FileRecord: r}
		if !p.opts.AllowDuplicates {
			if group, ok := listBody(text, groupPattern(r.Group)); ok {
				for _, m := range fileReferencePattern(r.Name).FindAllStringSubmatch(text, -1) {
					if strings.Contains(group, m[1]+" /* "+r.Name+" */") {
						e.RefID, e.hasFileRef = m[1], true
						break
					}
				}
			}
			if e.hasFileRef {
				for _, m := range buildFilePattern(r.Name).FindAllStringSubmatch(text, -1) {
					if m[2] != e.RefID {
						continue
					}
					// Prefer the build file the sources phase already lists.
					if !e.hasBuildFile || strings.Contains(phase, m[1]+" /* "+r.buildComment()+" */") {
						e.BuildID, e.hasBuildFile = m[1], true
					}
				}
			}
		}
		var err error
		if e.RefID == "" {
			if e.RefID, err = gen.Next(); err != nil {
				return nil, err
			}
		}
		if e.BuildID == "" {
			if e.BuildID, err = gen.Next(); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// listBody returns the text of the list opened by the first match of pattern,
// up to its closing ");".
func listBody(text string, pattern *regexp.Regexp) (string, bool) {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	body := text[loc[1]:]
	if end := strings.Index(body, ");"); end >= 0 {
		body = body[:end]
	}
	return body, true
}

func (p *Patcher) insertBeforeMarker(text, marker string, section Section, entries []entry, report *Report, exists func(entry) bool, line func(entry) string) string {
	idx := strings.Index(text, marker)
	var b strings.Builder
	for _, e := range entries {
		switch {
		case idx < 0:
			p.record(report, e.Name, section, OutcomeAnchorNotFound, marker)
		case !p.opts.AllowDuplicates && exists(e):
			p.record(report, e.Name, section, OutcomeAlreadyPresent, marker)
		default:
			b.WriteString(line(e))
			p.record(report, e.Name, section, OutcomeInserted, marker)
		}
	}
	if b.Len() == 0 {
		return text
	}
	return text[:idx] + b.String() + text[idx:]
}

// insertIntoList inserts lines right after the opening of the first list
// matched by pattern. listed returns the text that marks an entry as already
// present inside that list.
func (p *Patcher) insertIntoList(text string, pattern *regexp.Regexp, section Section, anchor string, entries []entry, report *Report, listed func(entry) string, line func(entry) string) string {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		for _, e := range entries {
			p.record(report, e.Name, section, OutcomeAnchorNotFound, anchor)
		}
		return text
	}
	start := loc[1]
	body, _ := listBody(text, pattern)

	var b strings.Builder
	for _, e := range entries {
		if !p.opts.AllowDuplicates && strings.Contains(body, listed(e)) {
			p.record(report, e.Name, section, OutcomeAlreadyPresent, anchor)
			continue
		}
		b.WriteString(line(e))
		p.record(report, e.Name, section, OutcomeInserted, anchor)
	}
	if b.Len() == 0 {
		return text
	}
	return text[:start] + b.String() + text[start:]
}

func (p *Patcher) record(report *Report, file string, section Section, outcome Outcome, anchor string) {
	report.add(file, section, outcome, anchor)
	p.log.Debug("section patched",
		zap.String("file", file),
		zap.String("section", string(section)),
		zap.String("outcome", string(outcome)),
		zap.String("anchor", anchor))
}

// groupOrder returns each distinct group once, in record order.
func groupOrder(entries []entry) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.Group] {
			seen[e.Group] = true
			groups = append(groups, e.Group)
		}
	}
	return groups
}
