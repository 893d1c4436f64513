package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// CheckContent sniffs data and rejects anything that is not UTF-8 text.
// It returns the detected media type.
func CheckContent(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !isText(mt) {
		return mt.String(), fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}
	if !utf8.Valid(data) {
		return mt.String(), ErrInvalidEncoding
	}
	return mt.String(), nil
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Decode runs the file-type check and the parser. Format errors return an
// empty Result; ErrNoRecords comes back with the line counts filled in.
func Decode(data []byte) (Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{MediaType: "text/plain"}, ErrNoRecords
	}

	mediaType, err := CheckContent(data)
	if err != nil {
		return Result{MediaType: mediaType}, err
	}

	res := Parse(string(data))
	res.MediaType = mediaType
	if !res.Delimited {
		return res, ErrNotDelimited
	}
	if res.Accepted == 0 {
		return res, ErrNoRecords
	}
	return res, nil
}
