// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package keyword

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFlag converts a GNU xgettext style keyword argument into a role map.
//
// The accepted forms are:
//
//	name            msgid is the first argument
//	name:2          msgid is the second argument
//	name:1,2        msgid and plural
//	name:1c,2       context and msgid
//	name:1c,2,3     context, msgid and plural
//
// Positions are one-based, as on the xgettext command line.
func ParseFlag(s string) (string, Roles, error) {
	name, args, hasArgs := strings.Cut(s, ":")
	if name == "" {
		return "", Roles{}, fmt.Errorf("%w: empty keyword name in %q", ErrInvalidSpec, s)
	}

	if !hasArgs {
		return name, Roles{Msgid: Index(0)}, nil
	}

	var (
		roles      Roles
		positional []int
	)

	for _, part := range strings.Split(args, ",") {
		part = strings.TrimSpace(part)
		isContext := strings.HasSuffix(part, "c")

		n, err := strconv.Atoi(strings.TrimSuffix(part, "c"))
		if err != nil || n < 1 {
			return "", Roles{}, fmt.Errorf("%w: bad argument position %q in %q", ErrInvalidSpec, part, s)
		}

		if isContext {
			if roles.Context != nil {
				return "", Roles{}, fmt.Errorf("%w: more than one context position in %q", ErrInvalidSpec, s)
			}

			roles.Context = Index(n - 1)

			continue
		}

		positional = append(positional, n-1)
	}

	switch len(positional) {
	case 1:
		roles.Msgid = Index(positional[0])
	case 2:
		roles.Msgid = Index(positional[0])
		roles.Plural = Index(positional[1])
	default:
		return "", Roles{}, fmt.Errorf("%w: expected one or two message positions in %q", ErrInvalidSpec, s)
	}

	if err := (Spec{name: roles}).Validate(); err != nil {
		return "", Roles{}, err
	}

	return name, roles, nil
}

// FromFlags builds a spec from xgettext style keyword arguments.
func FromFlags(flags []string) (Spec, error) {
	spec := make(Spec, len(flags))

	for _, f := range flags {
		name, roles, err := ParseFlag(f)
		if err != nil {
			return nil, err
		}

		spec[name] = roles
	}

	return spec, nil
}
