package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/apilens/cmd"
)

const memberDoc = `<?xml version="1.0"?>
<doc><assembly><name>Acme</name></assembly><members>
<member name="M:Acme.Widgets.Gearbox.Spin(System.Int32)"><summary>Spins it.</summary></member>
</members></doc>`

func writeCachedPackage(t *testing.T, cacheRoot string) {
	t.Helper()
	dir := filepath.Join(cacheRoot, "acme.widgets", "1.0.0", "lib", "net8.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Acme.Widgets.xml"), []byte(memberDoc), 0o644))
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOutput(buf)
	root := cmd.RootCmd()
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestRefreshThenSearchThenStats(t *testing.T) {
	cacheRoot := t.TempDir()
	writeCachedPackage(t, cacheRoot)
	indexPath := filepath.Join(t.TempDir(), "idx.bleve")

	run(t, "refresh", "--index", indexPath, "--cache-root", cacheRoot)
	statsOut := run(t, "stats", "--index", indexPath)
	assert.Contains(t, statsOut, "1 documents")

	searchOut := run(t, "search", "--index", indexPath, "--field", "name", "--value", "Spin")
	assert.Contains(t, searchOut, "Spin")
}
