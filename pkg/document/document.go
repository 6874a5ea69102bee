package document

import "github.com/google/uuid"

// IDPrefix is prepended to every document id produced by the reader so
// ids stay globally unique when several readers feed the same index.
const IDPrefix = "do_spaces_"

// Metadata keys every loaded document carries
const (
	MetaFilePath = "file_path"
	MetaFileName = "file_name"
	MetaBucket   = "bucket"
	MetaSize     = "file_size"
	MetaModTime  = "last_modified"
)

// Document is the framework-native unit of ingested content: the object
// bytes plus metadata describing where they came from. Instances are
// owned by the caller after a load returns.
type Document struct {
	ID       string                 `json:"id_"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
}

// MetadataFunc produces extra metadata for the object at the given key.
// Entries it returns override the built-in ones on collision.
type MetadataFunc func(key string) map[string]interface{}

// New builds a document for an object key. When filenameAsID is true the
// id is derived from the key, otherwise a random UUID is generated.
func New(key, text string, filenameAsID bool, metadata map[string]interface{}) Document {
	id := IDPrefix
	if filenameAsID {
		id += key
	} else {
		id += uuid.NewString()
	}

	return Document{
		ID:       id,
		Text:     text,
		Metadata: metadata,
	}
}
