package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openphil/internal/domain"
	"openphil/internal/project"
	"openphil/internal/selection"
	"openphil/internal/store"
)

func init() {
	color.NoColor = true
}

type cli struct {
	t      *testing.T
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "openphil.toml")
	content := fmt.Sprintf("version = 1\ndatabase = %q\n\n[log]\nfile = %q\nlevel = \"info\"\n",
		filepath.Join(dir, "openphil.db"), filepath.Join(dir, "openphil.log"))
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))
	return &cli{t: t, dir: dir, config: cfg}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	a := &app{}
	defer a.teardown()
	root := newRootCmd(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", c.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) writeProject(name string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, project.SaveFile(path, &domain.Project{
		ID:   "aen",
		Name: "Aeneid I",
		Tokens: []domain.Token{
			{ID: "a", Index: 100, Text: "arma"},
			{ID: "b", Index: 200, Text: "virumque"},
			{ID: "c", Index: 300, Text: "cano"},
			{ID: "d", Index: 400, Text: ","},
		},
		Comments: []domain.Comment{{ID: "c1", ProjectID: "aen", StartTokenID: "b", EndTokenID: "d", Body: "the hero"}},
	}))
	return path
}

func TestImportAndList(t *testing.T) {
	c := newCLI(t)
	witnesses := filepath.Join(c.dir, "witnesses")
	require.NoError(t, os.MkdirAll(witnesses, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(witnesses, "m.txt"), []byte("arma virumque cano"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(witnesses, "p.txt"), []byte("Troiae qui primus"), 0644))

	out, err := c.run("import", witnesses)
	require.NoError(t, err)
	assert.Contains(t, out, "M")
	assert.Contains(t, out, "3 tokens")

	out, err = c.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "M")
	assert.Contains(t, out, "P")

	db, err := store.OpenSQLite(context.Background(), filepath.Join(c.dir, "openphil.db"), nil)
	require.NoError(t, err)
	defer db.Close()
	projects, err := db.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestSetupLogsLoadedConfig(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("list")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(c.dir, "openphil.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "config loaded")
	assert.Contains(t, string(data), c.config)
}

func TestListEmpty(t *testing.T) {
	out, err := newCLI(t).run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects")
}

func TestRangeOnProjectFile(t *testing.T) {
	c := newCLI(t)
	path := c.writeProject("aeneid.json")

	out, err := c.run("range", path, "d", "b")
	require.NoError(t, err)
	assert.Equal(t, "virumque cano,\n", out)

	out, err = c.run("range", "--ids", path, "a", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "virumque")

	_, err = c.run("range", path, "a", "zz")
	assert.ErrorIs(t, err, selection.ErrIDNotFound)
}

func TestLoadExportAndComments(t *testing.T) {
	c := newCLI(t)
	path := c.writeProject("aeneid.yaml")

	out, err := c.run("load", path)
	require.NoError(t, err)
	assert.Contains(t, out, "aen")

	out, err = c.run("comments", "aen")
	require.NoError(t, err)
	assert.Contains(t, out, "virumque cano,")
	assert.Contains(t, out, "the hero")

	exported := filepath.Join(c.dir, "out", "aeneid.toml")
	_, err = c.run("export", "aen", exported)
	require.NoError(t, err)

	p, err := project.LoadFile(exported)
	require.NoError(t, err)
	assert.Len(t, p.Tokens, 4)
	assert.Len(t, p.Comments, 1)
}

func TestSplitWritesProjectFile(t *testing.T) {
	c := newCLI(t)
	path := c.writeProject("aeneid.msgpack")

	out, err := c.run("split", path, "b", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "virum que")

	p, err := project.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, p.Tokens, 5)
	assert.Equal(t, "virum", p.Tokens[1].Text)
	assert.Equal(t, "que", p.Tokens[2].Text)

	_, err = c.run("split", path, "a", "0")
	assert.ErrorIs(t, err, store.ErrInvalidSplit)
}

func TestViewNeedsFileToWatch(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("view", "--watch", "missing-id")
	assert.Error(t, err)
}
