package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, logLevel, verbose = "", "", false

	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "formats")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, common.PixelFormats.Len()+1)
	assert.Equal(t, "name,components,bits_per_pixel,packed,alpha", lines[0])
	assert.Equal(t, "rgb24,3,24,true,false", lines[1])

	out, err = execute(t, "formats", "--script")
	require.NoError(t, err)
	assert.Contains(t, out, "ColorClip")
	assert.Contains(t, out, "write_video")
}

func TestConfigCommands(t *testing.T) {
	out, err := execute(t, "config", "schema")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, out, "video_tool_binary_path")

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	shown := environment.Config{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, environment.DefaultFrameRate, shown.DefaultFrameRate)

	path := filepath.Join(t.TempDir(), "filmpy.yaml")
	_, err = execute(t, "config", "init", path)
	require.NoError(t, err)
	loaded, err := environment.Load(path)
	require.NoError(t, err)
	assert.Equal(t, environment.DefaultVideoToolBinary, loaded.VideoToolBinaryPath)
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.xml")
	script := `<filmpy><ColorClip name="red" color="255,0,0" width="4" height="2" duration="1" fps="2"/></filmpy>`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	out, err := execute(t, "run", "--summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "red")
	assert.Contains(t, out, "4x2")

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "nope.xml"))
	assert.Error(t, err)
}
