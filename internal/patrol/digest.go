package patrol

import (
	"fmt"
	"strings"
)

// Section names in the order they appear in the combined digest. The
// order is fixed so two passes over the same data render identically.
var sectionOrder = []string{
	"Work nudges",
	"Reconciliation",
	"Deadlines",
	"KPIs",
	"Backlog",
	"Approvals",
	"Activity",
	"Provider health",
	"Integrity",
	"Resource forecast",
}

// Digest accumulates rendered lines per detector family during one pass
// and merges the non-empty sections into a single message. Built fresh
// every pass, never merged across passes.
type Digest struct {
	sections map[string][]string
}

// NewDigest creates an empty digest
func NewDigest() *Digest {
	return &Digest{sections: make(map[string][]string)}
}

// Add appends a rendered line to a section
func (d *Digest) Add(section, format string, args ...interface{}) {
	d.sections[section] = append(d.sections[section], fmt.Sprintf(format, args...))
}

// Empty reports whether no section produced output this pass
func (d *Digest) Empty() bool {
	for _, lines := range d.sections {
		if len(lines) > 0 {
			return false
		}
	}
	return true
}

// Render merges all non-empty sections, in fixed order, into one
// human-readable message. Returns "" when every section is empty.
func (d *Digest) Render() string {
	var b strings.Builder
	for _, section := range sectionOrder {
		lines := d.sections[section]
		if len(lines) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + section + "\n")
		for _, line := range lines {
			b.WriteString("- " + line + "\n")
		}
	}
	return b.String()
}
