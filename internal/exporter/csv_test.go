package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/internal/config"
)

func testWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	paths := config.PathsFrom(t.TempDir())
	require.NoError(t, paths.EnsureDirs())
	return NewCSVWriter(paths), paths
}

// TestWriteSimpleCSV tests basic CSV writing with BOM
func TestWriteSimpleCSV(t *testing.T) {
	writer, paths := testWriter(t)

	err := writer.WriteSimpleCSV("out.csv", []string{"a", "b"}, [][]string{
		{"1", "2"},
		{"3", "4"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "out.csv"))
	require.NoError(t, err)

	// UTF-8 BOM then header
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(data[3:]))
}

// TestAppendToCSV tests appending records without rewriting the header
func TestAppendToCSV(t *testing.T) {
	writer, paths := testWriter(t)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"a"}, [][]string{{"1"}}))
	require.NoError(t, writer.AppendToCSV("out.csv", [][]string{{"2"}}))

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", string(data[3:]))
}

// TestResolvePathDatasets tests that datasets/ paths land in the datasets dir
func TestResolvePathDatasets(t *testing.T) {
	writer, paths := testWriter(t)

	err := writer.WriteSimpleCSV("datasets/things.csv", []string{"x"}, [][]string{{"1"}})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(paths.DatasetsDir, "things.csv"))
	assert.NoError(t, err)
}

// TestStreamWriter tests the streaming writer path
func TestStreamWriter(t *testing.T) {
	writer, paths := testWriter(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"n"})
	require.NoError(t, err)

	for _, v := range []string{"1", "2", "3"} {
		require.NoError(t, stream.WriteRecord([]string{v}))
	}
	require.NoError(t, stream.Close())

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "stream.csv"))
	require.NoError(t, err)
	assert.Equal(t, "n\n1\n2\n3\n", string(data[3:]))
}
