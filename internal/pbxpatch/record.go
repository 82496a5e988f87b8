package pbxpatch

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultFileType is used when a record's extension is not recognized.
const DefaultFileType = "sourcecode.swift"

var fileTypeByExtension = map[string]string{
	"c":       "sourcecode.c.c",
	"cpp":     "sourcecode.cpp.cpp",
	"h":       "sourcecode.c.h",
	"m":       "sourcecode.c.objc",
	"mm":      "sourcecode.cpp.objcpp",
	"metal":   "sourcecode.metal",
	"swift":   "sourcecode.swift",
	"intents": "file.intentdefinition",
}

// FileRecord is one source file to register in the manifest.
type FileRecord struct {
	// Name is the file name as it appears in the manifest, e.g. MotionManager.swift.
	Name string
	// Group is the name of the PBXGroup the file reference is added to.
	Group string
	// FileType is the lastKnownFileType. Empty means derive from the extension.
	FileType string
}

// Validate checks that the record can be rendered into manifest lines.
func (r FileRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("file record has no name")
	}
	if strings.ContainsAny(r.Name, "/\n;{}()") || strings.Contains(r.Name, "*/") {
		return fmt.Errorf("file name %q contains characters not allowed in a manifest entry", r.Name)
	}
	if strings.TrimSpace(r.Group) == "" {
		return fmt.Errorf("file %s has no group", r.Name)
	}
	if strings.ContainsAny(r.FileType, " \t\n;{}()=\"") || strings.Contains(r.FileType, "*/") {
		return fmt.Errorf("file %s: file type %q contains characters not allowed in a manifest entry", r.Name, r.FileType)
	}
	return nil
}

// LastKnownFileType returns the explicit file type or one derived from the extension.
func (r FileRecord) LastKnownFileType() string {
	if r.FileType != "" {
		return r.FileType
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(r.Name)), ".")
	if t, ok := fileTypeByExtension[ext]; ok {
		return t
	}
	return DefaultFileType
}

// buildComment is the comment Xcode attaches to a build file of a sources phase.
func (r FileRecord) buildComment() string {
	return r.Name + " in Sources"
}

// entry is a record together with the identifiers it is registered under.
type entry struct {
	FileRecord
	RefID   string
	BuildID string

	hasFileRef   bool
	hasBuildFile bool
}

func (e entry) buildFileLine() string {
	return fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXBuildFile; fileRef = %s /* %s */; };\n",
		e.BuildID, e.buildComment(), e.RefID, e.Name)
}

func (e entry) fileReferenceLine() string {
	return fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = %s; path = %s; sourceTree = \"<group>\"; };\n",
		e.RefID, e.Name, e.LastKnownFileType(), quotePath(e.Name))
}

func (e entry) groupChildLine() string {
	return fmt.Sprintf("\t\t\t\t%s /* %s */,\n", e.RefID, e.Name)
}

func (e entry) sourcesPhaseLine() string {
	return fmt.Sprintf("\t\t\t\t%s /* %s */,\n", e.BuildID, e.buildComment())
}

// quotePath quotes a path the way Xcode does when it contains characters
// outside the unquoted identifier set.
func quotePath(p string) string {
	for _, c := range p {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-', c == '$', c == '/', c == ':':
		default:
			return `"` + strings.ReplaceAll(p, `"`, `\"`) + `"`
		}
	}
	return p
}
