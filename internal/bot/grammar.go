package bot

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

// Each grammar must match the whole message. Keys and the kind token are
// case-insensitive; the name keeps the casing the user typed.
var (
	createRE = regexp.MustCompile(`(?i)^\s*name:\s*([\p{L}\p{N}_]+)\s*,\s*pk:\s*(\d+)\s*,\s*kind:\s*([\p{L}]+)\s*$`)
	updateRE = regexp.MustCompile(`(?i)^\s*old_pk:\s*(\d+)\s*,\s*name:\s*([\p{L}\p{N}_]+)\s*,\s*pk:\s*(\d+)\s*,\s*kind:\s*([\p{L}]+)\s*$`)
	pkRE     = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

var fold = cases.Fold()

// ParseKind accepts a bare breed token such as "Terrier".
func ParseKind(text string) (domain.Kind, bool) {
	k, err := domain.ParseKind(fold.String(strings.TrimSpace(text)))
	if err != nil {
		return "", false
	}
	return k, true
}

// ParseCreate accepts "name: <name>, pk: <digits>, kind: <kind>".
func ParseCreate(text string) (domain.Dog, bool) {
	m := createRE.FindStringSubmatch(text)
	if m == nil {
		return domain.Dog{}, false
	}
	return dogFrom(m[1], m[2], m[3])
}

// ParseLookup accepts a bare non-negative integer.
func ParseLookup(text string) (int, bool) {
	m := pkRE.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	pk, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return pk, true
}

// ParseUpdate accepts "old_pk: <digits>, name: <name>, pk: <digits>, kind: <kind>".
func ParseUpdate(text string) (int, domain.Dog, bool) {
	m := updateRE.FindStringSubmatch(text)
	if m == nil {
		return 0, domain.Dog{}, false
	}
	oldPK, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, domain.Dog{}, false
	}
	d, ok := dogFrom(m[2], m[3], m[4])
	if !ok {
		return 0, domain.Dog{}, false
	}
	return oldPK, d, true
}

func dogFrom(name, pk, kind string) (domain.Dog, bool) {
	n, err := strconv.Atoi(pk)
	if err != nil {
		return domain.Dog{}, false
	}
	k, ok := ParseKind(kind)
	if !ok {
		return domain.Dog{}, false
	}
	return domain.Dog{Name: name, PK: n, Kind: k}, true
}
