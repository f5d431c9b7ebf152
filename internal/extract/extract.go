// Package extract splits raw dialogue text into role-tagged units.
//
// Inputs are assumed to be far larger than memory-friendly sizes, so the
// extractor is a single forward pass over an io.Reader. The iterator it
// returns is lazy, finite and not restartable.
package extract

import (
	"bufio"
	"io"
	"strings"

	"refinery/internal/config"
	"refinery/internal/logging"
)

// Role labels a raw unit with the speaker role its marker identified.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleBond    Role = "bond"
	RoleGround  Role = "ground"
)

// roleOrder is the fixed precedence when markers of several roles match
// one line. Documented on config.ExtractionConfig.RoleMarkers.
var roleOrder = []Role{RoleTeacher, RoleStudent, RoleBond, RoleGround}

// RawUnit is a single extracted line. Immutable once produced.
type RawUnit struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
	Line int    `json:"line"` // 1-based line number in the source stream
}

// Extractor matches lines against the configured role markers.
type Extractor struct {
	markers map[Role][]string
}

// New builds an extractor from the extraction config. Marker matching is
// case-insensitive, so markers are lowered once here.
func New(cfg config.ExtractionConfig) *Extractor {
	markers := make(map[Role][]string, len(cfg.RoleMarkers))
	for role, list := range cfg.RoleMarkers {
		lowered := make([]string, len(list))
		for i, m := range list {
			lowered[i] = strings.ToLower(m)
		}
		markers[Role(role)] = lowered
	}
	return &Extractor{markers: markers}
}

// Units returns a lazy iterator over the role-tagged units of r. Lines
// without any role marker are skipped; this is data hygiene, not an error.
func (e *Extractor) Units(r io.Reader) *Iterator {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Iterator{extractor: e, scanner: sc}
}

// Iterator yields RawUnits in source order. Single forward pass; once
// exhausted it cannot be rewound.
type Iterator struct {
	extractor *Extractor
	scanner   *bufio.Scanner
	line      int
	done      bool
}

// Next returns the next unit and true, or a zero unit and false when the
// stream is exhausted.
func (it *Iterator) Next() (RawUnit, bool) {
	if it.done {
		return RawUnit{}, false
	}
	for it.scanner.Scan() {
		it.line++
		text := strings.TrimSpace(it.scanner.Text())
		if text == "" {
			continue
		}
		role, ok := it.extractor.match(text)
		if !ok {
			continue
		}
		logging.Get(logging.CategoryExtract).Debug("unit line=%d role=%s", it.line, role)
		return RawUnit{Role: role, Text: text, Line: it.line}, true
	}
	it.done = true
	return RawUnit{}, false
}

// Err reports any underlying read error after the iterator is exhausted.
func (it *Iterator) Err() error {
	return it.scanner.Err()
}

func (e *Extractor) match(line string) (Role, bool) {
	lower := strings.ToLower(line)
	for _, role := range roleOrder {
		for _, marker := range e.markers[role] {
			if strings.Contains(lower, marker) {
				return role, true
			}
		}
	}
	// Roles outside the fixed four are still honored if configured.
	for role, markers := range e.markers {
		if isFixedRole(role) {
			continue
		}
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				return role, true
			}
		}
	}
	return "", false
}

func isFixedRole(r Role) bool {
	for _, fixed := range roleOrder {
		if r == fixed {
			return true
		}
	}
	return false
}
