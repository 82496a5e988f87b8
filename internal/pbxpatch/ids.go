package pbxpatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gofrs/uuid"
)

// IDLength is the length of an object identifier in a pbxproj manifest.
const IDLength = 24

var idPattern = regexp.MustCompile(`\b[0-9A-F]{24}\b`)

// IDGenerator issues manifest object identifiers. It never returns an ID it
// has already issued or one it was told already exists.
type IDGenerator struct {
	used map[string]struct{}
}

// NewIDGenerator creates a generator that avoids the given identifiers.
func NewIDGenerator(existing ...string) *IDGenerator {
	g := &IDGenerator{used: make(map[string]struct{}, len(existing))}
	for _, id := range existing {
		g.Reserve(id)
	}
	return g
}

// Reserve marks id as taken.
func (g *IDGenerator) Reserve(id string) {
	g.used[id] = struct{}{}
}

// Next returns a fresh 24-character uppercase hex identifier.
func (g *IDGenerator) Next() (string, error) {
	for {
		u, err := uuid.NewV4()
		if err != nil {
			return "", fmt.Errorf("failed to generate identifier: %w", err)
		}
		id := strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:IDLength])
		if _, found := g.used[id]; found {
			continue
		}
		g.used[id] = struct{}{}
		return id, nil
	}
}

// ExistingIDs returns every identifier-shaped token in the manifest text.
func ExistingIDs(text string) []string {
	return idPattern.FindAllString(text, -1)
}

// IsID reports whether s has the shape of a manifest identifier.
func IsID(s string) bool {
	return len(s) == IDLength && idPattern.MatchString(s)
}
