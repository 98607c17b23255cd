// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectIndex(t *testing.T) {
	var out bytes.Buffer
	idx, err := SelectIndex(strings.NewReader("7\n2\n"), &out, "Assets:", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "[3] c")
	assert.Contains(t, out.String(), `Invalid choice "7"`)

	_, err = SelectIndex(strings.NewReader("q\n"), &out, "Assets:", []string{"a"})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestWaitForConfirmation(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, WaitForConfirmation(strings.NewReader("\n"), &out, "go? "))
	assert.ErrorIs(t, WaitForConfirmation(strings.NewReader("x\nn\n"), &out, "go? "), ErrCancelled)
}

func TestPrintOutput(t *testing.T) {
	v := map[string]any{"id": "asset-1"}

	var buf bytes.Buffer
	require.NoError(t, PrintOutput(&buf, "yml", v, nil))
	assert.Equal(t, "id: asset-1\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintOutput(&buf, "", v, nil))
	assert.JSONEq(t, `{"id":"asset-1"}`, buf.String())
}

func TestMergeMapsByKey(t *testing.T) {
	base := map[string]any{
		"@id":  "p1",
		"meta": map[string]any{"a": 1, "b": 1},
		"odrl:permission": []any{
			map[string]any{"@id": "r1", "action": "use"},
			map[string]any{"@id": "r2", "action": "read"},
		},
	}
	overlay := map[string]any{
		"meta": map[string]any{"b": 2},
		"odrl:permission": []any{
			map[string]any{"@id": "r2", "action": "write"},
			map[string]any{"@id": "r3", "action": "use"},
		},
	}
	got := MergeMaps(base, overlay, MergeConfig{"odrl:permission": "@id"})

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, got["meta"])
	perms := got["odrl:permission"].([]any)
	require.Len(t, perms, 3)
	assert.Equal(t, "read", base["odrl:permission"].([]any)[1].(map[string]any)["action"], "base untouched")
	assert.Equal(t, "write", perms[1].(map[string]any)["action"])
	assert.Equal(t, "r3", perms[2].(map[string]any)["@id"])
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("s3://bucket/some/prefix/")
	require.NoError(t, err)
	assert.True(t, p.IsS3())
	assert.Equal(t, "bucket", p.Host)
	assert.Equal(t, "some/prefix", p.Path)
	assert.Equal(t, "s3://bucket/some/prefix/file.csv", p.Join("file.csv"))

	p, err = ParsePath("/tmp/out/")
	require.NoError(t, err)
	assert.False(t, p.IsS3())
	assert.Equal(t, "/tmp/out", p.Path)

	_, err = ParsePath("ftp://host/x")
	assert.Error(t, err)
	_, err = ParsePath("s3:///x")
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	target, n, err := WriteFileAtomic(dir, "report.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, filepath.Join(dir, "report.csv"), target)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")

	second, _, err := WriteFileAtomic(dir, "report.csv", strings.NewReader("c,d\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_1.csv"), second)

	noExt, _, err := WriteFileAtomic(dir, "README", strings.NewReader("x"))
	require.NoError(t, err)
	noExt2, _, err := WriteFileAtomic(dir, "README", strings.NewReader("y"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "README"), noExt)
	assert.Equal(t, filepath.Join(dir, "README_1"), noExt2)

	first, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(first), "existing file kept")
}

func TestPrefixedID(t *testing.T) {
	id := PrefixedID("ap", "asset")
	assert.Regexp(t, `^ap-asset-[0-9a-f]{8}$`, id)
}
