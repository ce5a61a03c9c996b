package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/javadocref/internal/config"
	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
)

const typeIndex = `typeSearchIndex = [{"m":"io.github.kaktushose.jdac.core","p":"io.github.kaktushose.jdac","l":"JDACBuilder"}];`

// localDocs writes a minimal javadoc tree and returns its root.
func localDocs(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "javadoc")
	require.NoError(t, os.MkdirAll(root, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "type-search-index.js"), []byte(typeIndex), 0o600))
	return root
}

func testGlobal(t *testing.T, yamlConfig string) (*Global, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Parse([]byte(yamlConfig))
	require.NoError(t, err)
	var out bytes.Buffer
	return &Global{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
		Stdout: &out,
	}, &out
}

func TestResolveCmd(t *testing.T) {
	root := localDocs(t)
	g, out := testGlobal(t, "sources:\n  - alias: jdac\n    url: "+root+"\n")

	require.NoError(t, (&ResolveCmd{Ref: "jdac -> JDACBuilder"}).Run(g))
	assert.Equal(t, "JDACBuilder\tfile://"+filepath.ToSlash(root)+
		"/io.github.kaktushose.jdac.core/io/github/kaktushose/jdac/JDACBuilder.html\n", out.String())
}

func TestResolveCmdUnresolved(t *testing.T) {
	g, out := testGlobal(t, "sources:\n  - "+localDocs(t)+"\n")

	err := (&ResolveCmd{Ref: "String"}).Run(g)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	assert.Equal(t, 1, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Equal(t, "Invalid reference to String\n", out.String())
}

func TestSourcesCmd(t *testing.T) {
	g, out := testGlobal(t, "sources:\n  - https://docs.oracle.com/en/java/javase/24/docs/api/\n"+
		"  - alias: jdk8\n    url: https://docs.oracle.com/javase/8/docs/api/\n    type: old\n    auto_searched: false\n")

	require.NoError(t, (&SourcesCmd{}).Run(g))
	text := out.String()
	assert.Contains(t, text, "Alias")
	assert.Contains(t, text, "docs.oracle.com/en/java/javase/24/docs/api")
	assert.Contains(t, text, "jdk8")
	assert.Contains(t, text, "old")
	assert.Contains(t, text, "false")
}

func TestSourcesCmdEmpty(t *testing.T) {
	g, out := testGlobal(t, "")
	require.NoError(t, (&SourcesCmd{}).Run(g))
	assert.Equal(t, "No sources configured.\n", out.String())
}

func TestRenderCmdSingleFileToStdout(t *testing.T) {
	root := localDocs(t)
	g, out := testGlobal(t, "sources:\n  - "+root+"\n")
	md := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(md, []byte("See <JDACBuilder>.\n"), 0o600))

	require.NoError(t, (&RenderCmd{Files: []string{md}}).Run(g))
	assert.Contains(t, out.String(), `<a href="file://`+filepath.ToSlash(root)+`/io.github.kaktushose.jdac.core/io/github/kaktushose/jdac/JDACBuilder.html">JDACBuilder</a>`)
}

func TestRenderCmdOutputDirectory(t *testing.T) {
	g, out := testGlobal(t, "sources:\n  - "+localDocs(t)+"\n")
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.markdown")
	require.NoError(t, os.WriteFile(a, []byte("<JDACBuilder>\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("<Missing>\n"), 0o600))
	outDir := filepath.Join(dir, "site")

	require.NoError(t, (&RenderCmd{Files: []string{a, b}, Output: outDir}).Run(g))
	assert.Empty(t, out.String())

	html, err := os.ReadFile(filepath.Join(outDir, "a.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), ">JDACBuilder</a>")

	html, err = os.ReadFile(filepath.Join(outDir, "b.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `<a href="Missing">Invalid reference to Missing</a>`)
}

func TestRenderCmdWatchNeedsFiles(t *testing.T) {
	g, _ := testGlobal(t, "")
	err := (&RenderCmd{Watch: true}).Run(g)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRenderCmdDestination(t *testing.T) {
	tests := []struct {
		name string
		cmd  RenderCmd
		file string
		want string
	}{
		{"single file to stdout", RenderCmd{Files: []string{"docs/a.md"}}, "docs/a.md", ""},
		{"output dir", RenderCmd{Files: []string{"docs/a.md"}, Output: "site"}, "docs/a.md", filepath.Join("site", "a.html")},
		{"several files beside sources", RenderCmd{Files: []string{"docs/a.md", "b.md"}}, "docs/a.md", filepath.Join("docs", "a.html")},
		{"watch writes beside source", RenderCmd{Files: []string{"a.md"}, Watch: true}, "a.md", "a.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.destination(tt.file))
		})
	}
}

func TestLoadConfigDefaultPathMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := (&CLI{Config: DefaultConfigPath}).loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = (&CLI{Config: "elsewhere.yaml"}).loadConfig()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestAfterApplyPreparesGlobal(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: WARNING\n"), 0o600))

	cli := &CLI{Config: path, MetricsFile: filepath.Join(dir, "metrics.prom")}
	require.NoError(t, cli.AfterApply())
	g := cli.Global()
	require.NotNil(t, g)
	assert.Equal(t, config.LogLevelWarn, g.Config.Logging.Level)
	require.NotNil(t, g.Recorder)

	require.NoError(t, cli.Close())
	_, err := os.Stat(cli.MetricsFile)
	assert.NoError(t, err)
}
