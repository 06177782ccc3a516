// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decode converts data from enc to UTF-8. A leading byte order mark
// overrides enc.
func decode(data []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(data), nil
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// encode converts UTF-8 data to enc.
func encode(data []byte, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return data, nil
	}

	out, _, err := transform.Bytes(enc.NewEncoder(), data)
	if err != nil {
		return nil, err
	}

	return out, nil
}
