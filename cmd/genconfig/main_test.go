// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEnv(t *testing.T) {
	t.Parallel()

	env := renderEnv()

	assert.True(t, strings.HasPrefix(env, envFileHeader))
	assert.Contains(t, env, "## Output\n")
	assert.Contains(t, env, "# TPLXGETTEXT_OUTPUT=messages.po\n")
	assert.Contains(t, env, "# TPLXGETTEXT_DIRECTORY=.\n")
	assert.Contains(t, env, "# TPLXGETTEXT_KEYWORDS=\n")
	assert.NotContains(t, env, "Build")
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()

	out := renderYAML()

	assert.Contains(t, out, "\noutput:\n")
	assert.Contains(t, out, "# path: messages.po\n")
	assert.Contains(t, out, keywordsYAMLComment)

	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || !strings.HasPrefix(line, " ") {
			continue
		}

		t.Errorf("value line is not commented out: %q", line)
	}
}
