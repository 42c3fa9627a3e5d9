// Package domain defines the catalog records (dogs and posts) together with
// the persisted cache entry model. Dogs and posts live in the in-memory
// entity store; cache entries are mapped with GORM for the sqlite backend.
package domain

import (
	"errors"
	"strings"
)

// Kind is the breed tag of a dog. The set of kinds is closed.
type Kind string

// Supported breed tags.
const (
	KindTerrier   Kind = "terrier"
	KindBulldog   Kind = "bulldog"
	KindDalmatian Kind = "dalmatian"
)

// ErrUnknownKind is returned by ParseKind for tokens outside the closed set.
var ErrUnknownKind = errors.New("unknown dog kind")

// Kinds returns the breed tags in their canonical order.
func Kinds() []Kind {
	return []Kind{KindTerrier, KindBulldog, KindDalmatian}
}

// KindNames returns the breed tags as plain strings, e.g. for prompts.
func KindNames() []string {
	ks := Kinds()
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	return out
}

// Valid reports whether k belongs to the closed set of kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTerrier, KindBulldog, KindDalmatian:
		return true
	}
	return false
}

// ParseKind matches s exactly against the supported kinds.
// Callers that accept user input are expected to case-fold first.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Dog is a catalog record. PK is unique across all live dogs.
type Dog struct {
	Name string `json:"name" example:"Rex"`
	PK   int    `json:"pk"   example:"3"`
	Kind Kind   `json:"kind" example:"terrier" enums:"terrier,bulldog,dalmatian"`
}

// SeedDogs returns the dogs the store is initialized with on process start.
func SeedDogs() []Dog {
	return []Dog{
		{Name: "Bob", PK: 0, Kind: KindTerrier},
		{Name: "Marli", PK: 1, Kind: KindBulldog},
		{Name: "Snoopy", PK: 2, Kind: KindDalmatian},
		{Name: "Rex", PK: 3, Kind: KindTerrier},
		{Name: "Pongo", PK: 4, Kind: KindDalmatian},
		{Name: "Tillman", PK: 5, Kind: KindTerrier},
		{Name: "Uga", PK: 6, Kind: KindBulldog},
	}
}
