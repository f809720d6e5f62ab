package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "acme-blogs version "))
}

func TestUsersCommand_Offline(t *testing.T) {
	out, err := execute(t, "users", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "ID  NAME")
	assert.Contains(t, out, "Leanne Graham")
	assert.Contains(t, out, "Romaguera-Crona")
}

func TestRenderCommand_Offline(t *testing.T) {
	out, err := execute(t, "render", "3", "--offline", "--format", "html", "--expand", "21")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<section class="comments" data-post-id="21">`)
	assert.Contains(t, out, `<section class="comments hide" data-post-id="22">`)
}

func TestRenderCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "render", "1", "--offline", "--format", "pdf")
	assert.ErrorContains(t, err, `unknown format "pdf"`)
}
