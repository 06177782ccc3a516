// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package keyword describes which function-like calls in a template carry
translatable strings, and which of their string arguments play which role.

A Spec maps a keyword name (matched literally and case-sensitively) to a
Roles value. Argument indexes are zero-based positions among the string
literal arguments of the matched call, not raw argument positions:

	$t:         {msgid: 0}
	$ngettext:  {msgid: 0, plural: 1}
	$pgettext:  {context: 0, msgid: 1}
*/
package keyword

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// ErrInvalidSpec is returned when a keyword role map cannot be used.
var ErrInvalidSpec = errors.New("invalid keyword spec")

// Roles assigns string-literal argument positions to gettext roles.
// A nil role is absent.
type Roles struct {
	Msgid   *int `yaml:"msgid"`
	Plural  *int `yaml:"plural,omitempty"`
	Context *int `yaml:"context,omitempty"`
}

// Spec maps keyword names to their argument roles.
type Spec map[string]Roles

// Index returns a pointer to i, for building Roles literals.
func Index(i int) *int {
	return &i
}

// Default returns the keyword spec used when none is configured.
func Default() Spec {
	return Spec{
		"$t":         {Msgid: Index(0)},
		"$gettext":   {Msgid: Index(0)},
		"$ngettext":  {Msgid: Index(0), Plural: Index(1)},
		"$pgettext":  {Context: Index(0), Msgid: Index(1)},
		"$npgettext": {Context: Index(0), Msgid: Index(1), Plural: Index(2)},
	}
}

// Parse decodes a YAML role map such as
//
//	$t: {msgid: 0}
//	$ngettext: {msgid: 0, plural: 1}
//
// and validates it.
func Parse(data []byte) (Spec, error) {
	var spec Spec
	if err := yaml.UnmarshalWithOptions(data, &spec, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Validate reports whether spec is a usable structured role map.
func (spec Spec) Validate() error {
	if len(spec) == 0 {
		return fmt.Errorf("%w: no keywords", ErrInvalidSpec)
	}

	for _, name := range spec.Names() {
		if name == "" {
			return fmt.Errorf("%w: empty keyword name", ErrInvalidSpec)
		}

		roles := spec[name]
		if roles.Msgid == nil {
			return fmt.Errorf("%w: keyword %q has no msgid role", ErrInvalidSpec, name)
		}

		for role, idx := range map[string]*int{"msgid": roles.Msgid, "plural": roles.Plural, "context": roles.Context} {
			if idx != nil && *idx < 0 {
				return fmt.Errorf("%w: keyword %q has negative %s index %d", ErrInvalidSpec, name, role, *idx)
			}
		}

		if roles.Plural != nil && *roles.Plural == *roles.Msgid {
			return fmt.Errorf("%w: keyword %q uses argument %d for both msgid and plural", ErrInvalidSpec, name, *roles.Msgid)
		}

		if roles.Context != nil && (*roles.Context == *roles.Msgid || (roles.Plural != nil && *roles.Context == *roles.Plural)) {
			return fmt.Errorf("%w: keyword %q reuses argument %d for context", ErrInvalidSpec, name, *roles.Context)
		}
	}

	return nil
}

// Names returns the keyword names sorted longest first, then lexically.
func (spec Spec) Names() []string {
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}

		return names[i] < names[j]
	})

	return names
}

// Merge returns a new spec holding spec's keywords overridden by other's.
func (spec Spec) Merge(other Spec) Spec {
	out := make(Spec, len(spec)+len(other))
	for name, roles := range spec {
		out[name] = roles
	}

	for name, roles := range other {
		out[name] = roles
	}

	return out
}
