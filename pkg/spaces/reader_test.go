package spaces_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/document"
	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/spaces"
	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage/local"
	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage/mocks"
)

// newLocalFS builds a filesystem over a temp dir seeded with files
func newLocalFS(t *testing.T, files map[string]string) storage.Filesystem {
	t.Helper()

	fs, err := local.New(storage.Config{
		Name:    "test_bucket",
		Type:    "local",
		Enabled: true,
		Options: map[string]interface{}{"path": t.TempDir()},
	})
	require.NoError(t, err)

	ctx := context.Background()
	for path, content := range files {
		require.NoError(t, fs.Write(ctx, path, []byte(content)))
	}

	return fs
}

func newReader(fs storage.Filesystem, filter *spaces.FilterSpec) *spaces.Reader {
	cfg := spaces.Config{Bucket: "test_bucket"}
	return spaces.NewWithFilesystem(fs, cfg, filter, zerolog.Nop())
}

func TestLoadData(t *testing.T) {
	ctx := context.Background()

	t.Run("one_document_per_object", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{
			"a.txt":      "alpha",
			"b.txt":      "beta",
			"docs/c.txt": "gamma",
		})

		docs, err := newReader(fs, nil).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 3)

		// Lexicographic by key
		assert.Equal(t, "a.txt", docs[0].Metadata[document.MetaFilePath])
		assert.Equal(t, "b.txt", docs[1].Metadata[document.MetaFilePath])
		assert.Equal(t, "docs/c.txt", docs[2].Metadata[document.MetaFilePath])

		assert.Equal(t, "alpha", docs[0].Text)
		assert.Equal(t, "do_spaces_a.txt", docs[0].ID)
		assert.Equal(t, "test_bucket", docs[0].Metadata[document.MetaBucket])
		assert.Equal(t, "c.txt", docs[2].Metadata[document.MetaFileName])
		assert.Equal(t, int64(5), docs[0].Metadata[document.MetaSize])
	})

	t.Run("required_extensions_filter", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{
			"a.txt":     "a",
			"b.md":      "b",
			"c.txt":     "c",
			"sub/d.pdf": "d",
		})

		filter := spaces.DefaultFilterSpec()
		filter.RequiredExts = []string{".txt"}

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		for _, doc := range docs {
			assert.True(t, strings.HasSuffix(doc.Metadata[document.MetaFilePath].(string), ".txt"))
		}
	})

	t.Run("max_files_truncates_in_key_order", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{
			"c.txt": "c",
			"a.txt": "a",
			"b.txt": "b",
			"d.txt": "d",
		})

		filter := spaces.DefaultFilterSpec()
		filter.MaxFiles = 2

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a.txt", docs[0].Metadata[document.MetaFilePath])
		assert.Equal(t, "b.txt", docs[1].Metadata[document.MetaFilePath])
	})

	t.Run("non_recursive_excludes_nested_objects", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{
			"a.txt":            "a",
			"sub/b.txt":        "b",
			"sub/deeper/c.txt": "c",
		})

		filter := spaces.DefaultFilterSpec()
		filter.Recursive = false

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "a.txt", docs[0].Metadata[document.MetaFilePath])
	})

	t.Run("prefix_restricts_enumeration", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{
			"docs/a.txt":  "a",
			"other/b.txt": "b",
		})

		reader := spaces.NewWithFilesystem(fs, spaces.Config{
			Bucket: "test_bucket",
			Prefix: "docs",
		}, nil, zerolog.Nop())

		docs, err := reader.LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "docs/a.txt", docs[0].Metadata[document.MetaFilePath])
	})

	t.Run("zero_matches_is_empty_success", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{"a.txt": "a"})

		reader := spaces.NewWithFilesystem(fs, spaces.Config{
			Bucket: "test_bucket",
			Prefix: "nothing_here",
		}, nil, zerolog.Nop())

		docs, err := reader.LoadData(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("single_key_load", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{
			"docs/a.txt": "a",
			"docs/b.txt": "b",
		})

		reader := spaces.NewWithFilesystem(fs, spaces.Config{
			Bucket: "test_bucket",
			Key:    "docs/b.txt",
		}, nil, zerolog.Nop())

		docs, err := reader.LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "b", docs[0].Text)
		assert.Equal(t, "do_spaces_docs/b.txt", docs[0].ID)
	})

	t.Run("missing_key_is_not_found", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{"a.txt": "a"})

		reader := spaces.NewWithFilesystem(fs, spaces.Config{
			Bucket: "test_bucket",
			Key:    "gone.txt",
		}, nil, zerolog.Nop())

		_, err := reader.LoadData(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("invalid_utf8_fails_in_text_mode", func(t *testing.T) {
		fs := newLocalFS(t, nil)
		require.NoError(t, fs.Write(ctx, "bin.dat", []byte{0xff, 0xfe, 0x01}))

		_, err := newReader(fs, nil).LoadData(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrDecode)
	})

	t.Run("binary_mode_passes_bytes_through", func(t *testing.T) {
		fs := newLocalFS(t, nil)
		raw := []byte{0xff, 0xfe, 0x01}
		require.NoError(t, fs.Write(ctx, "bin.dat", raw))

		filter := spaces.DefaultFilterSpec()
		filter.Mode = spaces.ModeBinary

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, string(raw), docs[0].Text)
	})

	t.Run("uuid_ids_when_filename_as_id_off", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{"a.txt": "a"})

		filter := spaces.DefaultFilterSpec()
		filter.FilenameAsID = false

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.True(t, strings.HasPrefix(docs[0].ID, document.IDPrefix))
		assert.NotEqual(t, "do_spaces_a.txt", docs[0].ID)
	})

	t.Run("file_metadata_callback_overrides", func(t *testing.T) {
		fs := newLocalFS(t, map[string]string{"a.txt": "a"})

		filter := spaces.DefaultFilterSpec()
		filter.FileMetadata = func(key string) map[string]interface{} {
			return map[string]interface{}{
				"team":                "search",
				document.MetaFilePath: "overridden/" + key,
			}
		}

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "search", docs[0].Metadata["team"])
		assert.Equal(t, "overridden/a.txt", docs[0].Metadata[document.MetaFilePath])
	})

	t.Run("parallel_fetch_preserves_order", func(t *testing.T) {
		files := make(map[string]string, 20)
		for i := 0; i < 20; i++ {
			files[fmt.Sprintf("doc-%02d.txt", i)] = fmt.Sprintf("content %d", i)
		}
		fs := newLocalFS(t, files)

		filter := spaces.DefaultFilterSpec()
		filter.FetchConcurrency = 5

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 20)
		for i, doc := range docs {
			assert.Equal(t, fmt.Sprintf("doc-%02d.txt", i), doc.Metadata[document.MetaFilePath])
		}
	})
}

func TestLoadDataErrorPolicy(t *testing.T) {
	ctx := context.Background()

	listing := []storage.FileInfo{
		{Path: "a.txt", Size: 1},
		{Path: "b.txt", Size: 1},
	}

	t.Run("fail_fast_aborts_the_load", func(t *testing.T) {
		fs := mocks.NewMockFilesystem(t)
		fs.On("List", mock.Anything, "", true).Return(listing, nil).Once()
		fs.On("Stat", mock.Anything, "a.txt").Return(&listing[0], nil).Once()
		fs.On("Read", mock.Anything, "a.txt").Return(nil, storage.ErrConnFailed).Once()

		_, err := newReader(fs, nil).LoadData(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrConnFailed)
	})

	t.Run("skip_failed_drops_the_object", func(t *testing.T) {
		fs := mocks.NewMockFilesystem(t)
		fs.On("List", mock.Anything, "", true).Return(listing, nil).Once()
		fs.On("Stat", mock.Anything, "a.txt").Return(&listing[0], nil).Once()
		fs.On("Read", mock.Anything, "a.txt").Return(nil, storage.ErrConnFailed).Once()
		fs.On("Stat", mock.Anything, "b.txt").Return(&listing[1], nil).Once()
		fs.On("Read", mock.Anything, "b.txt").Return([]byte("beta"), nil).Once()

		filter := spaces.DefaultFilterSpec()
		filter.ErrorPolicy = spaces.SkipFailed

		docs, err := newReader(fs, &filter).LoadData(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "beta", docs[0].Text)
	})

	t.Run("listing_failure_propagates", func(t *testing.T) {
		fs := mocks.NewMockFilesystem(t)
		fs.On("List", mock.Anything, "", true).Return(nil, storage.ErrAccessDenied).Once()

		_, err := newReader(fs, nil).LoadData(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrAccessDenied)
	})
}

func TestConfigRequiredAtCallTime(t *testing.T) {
	ctx := context.Background()

	// New performs no network I/O, so a reader over a bucket that does
	// not exist constructs fine; the missing fields fail LoadData.
	reader, err := spaces.New(ctx, spaces.Config{
		Bucket: "some-bucket",
		Region: "us-east-1",
	}, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = reader.LoadData(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)
}

func TestAsFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := newLocalFS(t, nil)
	reader := newReader(fs, nil)

	handle := reader.AsFilesystem()
	payload := []byte("serialized index state")

	require.NoError(t, handle.Write(ctx, "index/segments/0001.bin", payload))

	got, err := handle.Read(ctx, "index/segments/0001.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	exists, err := handle.Exists(ctx, "index/segments/0001.bin")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = handle.Exists(ctx, "index/segments/0002.bin")
	require.NoError(t, err)
	assert.False(t, exists)

	names, err := handle.ListDir(ctx, "index/segments")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001.bin"}, names)
}

func TestPingFallsBackToListing(t *testing.T) {
	ctx := context.Background()
	fs := newLocalFS(t, map[string]string{"a.txt": "a"})

	require.NoError(t, newReader(fs, nil).Ping(ctx))
}
