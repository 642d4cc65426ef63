package overlay

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/filesystem"
)

func TestIgnoreManifestEnsure(t *testing.T) {
	tests := []struct {
		name      string
		existing  *string
		lines     []string
		wantAdded int
		want      string
	}{
		{
			name:      "creates missing manifest",
			lines:     []string{"browser/zen.js"},
			wantAdded: 1,
			want:      "browser/zen.js\n",
		},
		{
			name:      "skips exact duplicate",
			existing:  strPtr("obj-*\nbrowser/zen.js\n"),
			lines:     []string{"browser/zen.js"},
			wantAdded: 0,
			want:      "obj-*\nbrowser/zen.js\n",
		},
		{
			name:      "repairs missing trailing newline",
			existing:  strPtr("obj-*"),
			lines:     []string{"browser/zen.js"},
			wantAdded: 1,
			want:      "obj-*\nbrowser/zen.js\n",
		},
		{
			name:      "substring of an existing line is not a match",
			existing:  strPtr("browser/zen.js.bak\n"),
			lines:     []string{"browser/zen.js"},
			wantAdded: 1,
			want:      "browser/zen.js.bak\nbrowser/zen.js\n",
		},
		{
			name:      "batch keeps order and dedupes",
			existing:  strPtr("a\n"),
			lines:     []string{"b", "a", "c", "b"},
			wantAdded: 2,
			want:      "a\nb\nc\n",
		},
		{
			name:      "crlf lines still match",
			existing:  strPtr("a\r\n"),
			lines:     []string{"a"},
			wantAdded: 0,
			want:      "a\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewAferoFS(afero.NewMemMapFs())
			path := "/engine/.gitignore"
			if tt.existing != nil {
				require.NoError(t, fs.MkdirAll("/engine", 0755))
				require.NoError(t, fs.WriteFile(path, []byte(*tt.existing), 0644))
			}

			m := NewIgnoreManifest(fs, path)
			added, err := m.EnsureAll(tt.lines)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdded, added)

			got, err := fs.ReadFile(path)
			if tt.want == "" {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestIgnoreManifestSingleLine(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	m := NewIgnoreManifest(fs, "/engine/.gitignore")

	changed, err := m.Ensure("toolkit/moz.build")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.Ensure("toolkit/moz.build")
	require.NoError(t, err)
	assert.False(t, changed)

	ok, err := m.Contains("toolkit/moz.build")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Contains("toolkit")
	require.NoError(t, err)
	assert.False(t, ok)
}

func strPtr(s string) *string { return &s }
