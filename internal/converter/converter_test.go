package converter

import (
	"bytes"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/scrt-session-extractor/internal/config"
	"github.com/ginjaninja78/scrt-session-extractor/internal/extractor"
	"github.com/ginjaninja78/scrt-session-extractor/internal/scrtxml"
	"github.com/ginjaninja78/scrt-session-extractor/internal/types"
)

const exportDoc = `<?xml version="1.0" encoding="UTF-8"?>
<VanDyke version="3.0">
	<key name="Sessions">
		<key name="Work">
			<key name="srv1">
				<string name="Hostname">10.0.0.5</string>
			</key>
			<key name="notes">
				<string name="Protocol Name">Telnet</string>
			</key>
		</key>
		<key name="legacy">
			<string name="Hostname">host2</string>
			<dword name="[SSH2] Port">2222</dword>
			<string name="Protocol Name">SSH1</string>
		</key>
	</key>
</VanDyke>
`

const exportCSV = "name,address,port,protocol\r\n" +
	"Work/srv1,10.0.0.5,22,SSH2\r\n" +
	"legacy,host2,2222,SSH1\r\n"

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sessions.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun(t *testing.T) {
	t.Run("file to file", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, exportDoc)
		output := filepath.Join(dir, "sessions.csv")

		result, err := New(input, output, nil, nil).Run()
		require.NoError(t, err)

		assert.Equal(t, input, result.Source)
		assert.Equal(t, config.FormatCSV, result.Format)
		assert.Equal(t, 2, result.Records)
		assert.Empty(t, result.ArchivePath)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, exportCSV, string(data))
	})

	t.Run("stdin to stdout", func(t *testing.T) {
		var stdout bytes.Buffer
		conv := New("-", "-", nil, nil)
		conv.Stdin = strings.NewReader(exportDoc)
		conv.Stdout = &stdout

		result, err := conv.Run()
		require.NoError(t, err)
		assert.Equal(t, "stdin", result.Source)
		assert.Equal(t, exportCSV, stdout.String())
	})

	t.Run("empty paths mean standard streams", func(t *testing.T) {
		var stdout bytes.Buffer
		conv := New("", "", nil, nil)
		conv.Stdin = strings.NewReader(exportDoc)
		conv.Stdout = &stdout

		_, err := conv.Run()
		require.NoError(t, err)
		assert.Equal(t, exportCSV, stdout.String())
	})

	t.Run("empty Sessions container writes header only", func(t *testing.T) {
		var stdout bytes.Buffer
		conv := New("-", "-", nil, nil)
		conv.Stdin = strings.NewReader(`<VanDyke><key name="Sessions"/></VanDyke>`)
		conv.Stdout = &stdout

		result, err := conv.Run()
		require.NoError(t, err)
		assert.Equal(t, 0, result.Records)
		assert.Equal(t, "name,address,port,protocol\r\n", stdout.String())
	})

	t.Run("lf line endings from config", func(t *testing.T) {
		cfg := config.Default()
		cfg.LineEnding = "lf"

		var stdout bytes.Buffer
		conv := New("-", "-", cfg, nil)
		conv.Stdin = strings.NewReader(exportDoc)
		conv.Stdout = &stdout

		_, err := conv.Run()
		require.NoError(t, err)
		assert.Equal(t, strings.ReplaceAll(exportCSV, "\r\n", "\n"), stdout.String())
	})

	t.Run("repeated runs are identical", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, exportDoc)

		var first, second bytes.Buffer
		for _, out := range []*bytes.Buffer{&first, &second} {
			conv := New(input, "-", nil, nil)
			conv.Stdout = out
			_, err := conv.Run()
			require.NoError(t, err)
		}
		assert.Equal(t, first.Bytes(), second.Bytes())
	})
}

func TestRunFatalPaths(t *testing.T) {
	t.Run("missing Sessions leaves no output file", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, `<VanDyke><key name="Global"/></VanDyke>`)
		output := filepath.Join(dir, "sessions.csv")

		_, err := New(input, output, nil, nil).Run()
		require.ErrorIs(t, err, scrtxml.ErrSessionsNotFound)
		assert.Equal(t, "Could not find Sessions node in XML.", err.Error())

		_, statErr := os.Stat(output)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("existing output is not truncated on failure", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, `<VanDyke>`)
		output := filepath.Join(dir, "sessions.csv")
		require.NoError(t, os.WriteFile(output, []byte("previous export"), 0644))

		_, err := New(input, output, nil, nil).Run()
		require.Error(t, err)

		data, readErr := os.ReadFile(output)
		require.NoError(t, readErr)
		assert.Equal(t, "previous export", string(data))
	})

	t.Run("unparsable stdin", func(t *testing.T) {
		var stdout bytes.Buffer
		conv := New("-", "-", nil, nil)
		conv.Stdin = strings.NewReader("not xml at all <")
		conv.Stdout = &stdout

		_, err := conv.Run()
		var parseErr *scrtxml.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.True(t, strings.HasPrefix(err.Error(), "Error parsing XML from stdin: "))
		assert.Empty(t, stdout.String())
	})

	t.Run("missing input file is reported as a parse failure", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.xml")

		_, err := New(missing, "-", nil, nil).Run()
		var parseErr *scrtxml.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, missing, parseErr.Source)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("unwritable output", func(t *testing.T) {
		dir := t.TempDir()
		input := writeInput(t, dir, exportDoc)

		_, err := New(input, filepath.Join(dir, "missing", "out.csv"), nil, nil).Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output file")
	})
}

func TestRunXLSX(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, exportDoc)
	output := filepath.Join(dir, "sessions.xlsx")

	result, err := New(input, output, nil, nil).Run()
	require.NoError(t, err)
	assert.Equal(t, config.FormatXLSX, result.Format)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sessions")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "address", "port", "protocol"},
		{"Work/srv1", "10.0.0.5", "22", "SSH2"},
		{"legacy", "host2", "2222", "SSH1"},
	}, rows)
}

func TestRunArchive(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, exportDoc)
	output := filepath.Join(dir, "sessions.csv")

	cfg := config.Default()
	cfg.ArchiveDir = filepath.Join(dir, "archive")

	result, err := New(input, output, cfg, nil).Run()
	require.NoError(t, err)
	require.NotEmpty(t, result.ArchivePath)
	assert.Equal(t, cfg.ArchiveDir, filepath.Dir(result.ArchivePath))

	data, err := os.ReadFile(result.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, exportCSV, string(data))

	t.Run("stdout is never archived", func(t *testing.T) {
		conv := New(input, "-", cfg, nil)
		conv.Stdout = &bytes.Buffer{}

		result, err := conv.Run()
		require.NoError(t, err)
		assert.Empty(t, result.ArchivePath)
	})
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		explicit string
		output   string
		want     string
		wantErr  bool
	}{
		{"", "-", config.FormatCSV, false},
		{"", "out.csv", config.FormatCSV, false},
		{"", "out.XLSX", config.FormatXLSX, false},
		{"", "out.txt", config.FormatCSV, false},
		{"csv", "out.xlsx", config.FormatCSV, false},
		{"XLSX", "-", config.FormatXLSX, false},
		{"json", "out.csv", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveFormat(tt.explicit, tt.output)
		if tt.wantErr {
			assert.Error(t, err, "%q %q", tt.explicit, tt.output)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q %q", tt.explicit, tt.output)
	}
}

// sessionsOf yields each record with its name split into key names.
func sessionsOf(records ...types.Record) iter.Seq2[[]string, types.Record] {
	return func(yield func([]string, types.Record) bool) {
		for _, record := range records {
			if !yield(strings.Split(record.Name, "/"), record) {
				return
			}
		}
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sessionsOf(
		types.Record{Name: "Work/a", Protocol: "SSH2"},
		types.Record{Name: "top", Protocol: "SSH2"},
		types.Record{Name: "Work/b", Protocol: "Telnet"},
		types.Record{Name: "Work/Deep/c", Protocol: "SSH2"},
		types.Record{Name: "Work/d", Protocol: "SSH2"},
	))
	assert.Equal(t, 5, summary.Total)
	require.Len(t, summary.Folders, 3)

	assert.Equal(t, "Work", summary.Folders[0].Folder)
	assert.Equal(t, 3, summary.Folders[0].Sessions)
	assert.Equal(t, map[string]int{"SSH2": 2, "Telnet": 1}, summary.Folders[0].Protocols)
	assert.Equal(t, "SSH2=2, Telnet=1", summary.Folders[0].protocolList())

	assert.Equal(t, RootFolder, summary.Folders[1].Folder)
	assert.Equal(t, "Work/Deep", summary.Folders[2].Folder)
}

func TestSummarizeKeyNamesWithSeparator(t *testing.T) {
	root, err := scrtxml.Parse(strings.NewReader(`<VanDyke><key name="Sessions">
		<key name="a/b"><string name="Hostname">h1</string></key>
		<key name="a"><key name="b"><key name="c"><string name="Hostname">h2</string></key></key></key>
		<key name="x/y"><key name="z"><string name="Hostname">h3</string></key></key>
		<key name=""><key name="w"><string name="Hostname">h4</string></key></key>
	</key></VanDyke>`), "slash.xml")
	require.NoError(t, err)
	sessions, err := scrtxml.FindSessions(root)
	require.NoError(t, err)

	summary := Summarize(extractor.Sessions(sessions, nil))
	require.Len(t, summary.Folders, 4)

	assert.Equal(t, RootFolder, summary.Folders[0].Folder, "a key named a/b is a session at the top")
	assert.Equal(t, 1, summary.Folders[0].Sessions)
	assert.Equal(t, "a/b", summary.Folders[1].Folder)
	assert.Equal(t, "x/y", summary.Folders[2].Folder)
	assert.Equal(t, "", summary.Folders[3].Folder, "an unnamed folder is not the root")
	assert.Equal(t, 4, summary.Total)
}

func TestRenderSummary(t *testing.T) {
	summary := Summarize(sessionsOf(
		types.Record{Name: "Lab/x", Protocol: "SSH2"},
		types.Record{Name: "Lab/y", Protocol: "Telnet"},
	))

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, summary))

	out := buf.String()
	assert.Contains(t, out, "Lab")
	assert.Contains(t, out, "SSH2=1, Telnet=1")
	assert.Contains(t, out, "Total")
}
