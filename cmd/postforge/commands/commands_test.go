package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePost = `---
title: Hello!
date: 2017-05-21 17:04:16 +0200
categories: rails
---

We made it!

{% highlight ruby %}
puts "hi"
{% endhighlight %}
`

func writeWorkspace(t *testing.T) (configPath, contentDir string) {
	t.Helper()
	dir := t.TempDir()
	contentDir = filepath.Join(dir, "_posts")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(contentDir, "2017-05-21-hello.md"), []byte(samplePost), 0o644))

	configPath = filepath.Join(dir, "postforge.yaml")
	cfg := "content:\n  dir: " + contentDir + "\nindex:\n  path: " + filepath.Join(dir, "index.db") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	return configPath, contentDir
}

func TestBuildCmd_RendersContentDir(t *testing.T) {
	configPath, _ := writeWorkspace(t)
	root := &CLI{Config: configPath}

	cmd := &BuildCmd{}
	require.NoError(t, cmd.Run(&Global{}, root))
}

func TestBuildCmd_FailsOnBrokenSource(t *testing.T) {
	configPath, contentDir := writeWorkspace(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(contentDir, "broken.md"), []byte("no front matter"), 0o644))

	root := &CLI{Config: configPath}
	err := (&BuildCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 sources failed")
}

func TestListCmd_AfterBuild(t *testing.T) {
	configPath, _ := writeWorkspace(t)
	root := &CLI{Config: configPath}
	require.NoError(t, (&BuildCmd{}).Run(&Global{}, root))

	require.NoError(t, (&ListCmd{}).Run(&Global{}, root))
	require.NoError(t, (&ListCmd{Category: "rails"}).Run(&Global{}, root))
	require.NoError(t, (&ListCmd{JSON: true}).Run(&Global{}, root))
}

func TestListCmd_RequiresIndexPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "postforge.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("content:\n  dir: "+dir+"\n"), 0o644))

	err := (&ListCmd{}).Run(&Global{}, &CLI{Config: configPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no index configured")
}

func TestInitCmd_WritesAndRefusesOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "postforge.yaml")
	root := &CLI{Config: configPath}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	require.FileExists(t, configPath)

	err := (&InitCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}

func TestRenderCmd_PrintsExpandedBody(t *testing.T) {
	_, contentDir := writeWorkspace(t)
	root := &CLI{Config: DefaultConfigPath}

	cmd := &RenderCmd{Path: filepath.Join(contentDir, "2017-05-21-hello.md")}
	require.NoError(t, cmd.Run(&Global{}, root))
}
