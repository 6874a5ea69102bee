package document_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/document"
)

func TestNew(t *testing.T) {
	t.Run("filename_derived_id", func(t *testing.T) {
		doc := document.New("dir/report.txt", "text", true, map[string]interface{}{
			document.MetaBucket: "b",
		})
		assert.Equal(t, "do_spaces_dir/report.txt", doc.ID)
		assert.Equal(t, "text", doc.Text)
		assert.Equal(t, "b", doc.Metadata[document.MetaBucket])
	})

	t.Run("random_ids_are_prefixed_and_unique", func(t *testing.T) {
		a := document.New("same.txt", "", false, nil)
		b := document.New("same.txt", "", false, nil)

		assert.True(t, strings.HasPrefix(a.ID, document.IDPrefix))
		assert.True(t, strings.HasPrefix(b.ID, document.IDPrefix))
		assert.NotEqual(t, a.ID, b.ID)
	})
}
