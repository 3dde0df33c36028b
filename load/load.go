/*
Package load inserts exported documents into a document store.
*/
package load

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"unicode"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/omniscale/osmdocs/database"
	"github.com/omniscale/osmdocs/stats"
)

// Load reads the exported JSON array from fname and inserts all documents
// with a single InsertMany call. Returns the number of inserted documents.
// The whole load fails if the file can not be parsed or if the insert
// fails. Load does not check for documents loaded by an earlier run.
func Load(ctx context.Context, fname string, store database.Store) (int, error) {
	b, err := os.ReadFile(fname)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", fname)
	}
	docs, err := Parse(b)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", fname)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	n, err := store.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	stats.DocumentsLoaded.Add(float64(n))
	return n, nil
}

// Parse decodes an exported JSON array into ordered BSON documents.
// A separator after the last document is accepted, as written by
// earlier exports.
func Parse(b []byte) ([]interface{}, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(trimTrailingSeparator(b), &records); err != nil {
		return nil, err
	}
	docs := make([]interface{}, 0, len(records))
	for i, rec := range records {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(rec, false, &doc); err != nil {
			return nil, errors.Wrapf(err, "document %d", i)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func trimTrailingSeparator(b []byte) []byte {
	t := bytes.TrimRightFunc(b, unicode.IsSpace)
	if !bytes.HasSuffix(t, []byte("]")) {
		return b
	}
	body := bytes.TrimRightFunc(t[:len(t)-1], unicode.IsSpace)
	if !bytes.HasSuffix(body, []byte(",")) {
		return b
	}
	trimmed := make([]byte, 0, len(body))
	trimmed = append(trimmed, body[:len(body)-1]...)
	return append(trimmed, ']')
}
