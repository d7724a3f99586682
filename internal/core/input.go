package core

// input.go reads record batches from JSON input.
//
// The input is a JSON array of objects with the nine record keys. Any
// problem with the input as a whole (missing file, oversized file, invalid
// JSON, missing key, wrong value type for a text field) is an InputError and
// aborts the run. Bad values inside otherwise well-formed records are not
// input errors; they are classified by the Validator.

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrFileTooLarge is returned when the input exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyInput is returned when the input holds no JSON at all.
	ErrEmptyInput = errors.New("empty file")

	// ErrMissingField is returned when a record object lacks one of the nine keys.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidJSON is returned when the input is not a JSON array of objects.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrInvalidValue is returned when a text field holds a non-string value.
	ErrInvalidValue = errors.New("invalid record value")
)

// InputError reports a fatal problem with the input source.
type InputError struct {
	Path  string // Source path, empty for readers
	Index int    // Record index, -1 when the whole input is affected
	Err   error
}

func (e *InputError) Error() string {
	src := e.Path
	if src == "" {
		src = "input"
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s: record %d: %v", src, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", src, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// utf8BOM is commonly written by Windows editors at the start of a file.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader that drops a leading UTF-8 BOM, if present.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// ReadRecords opens path and decodes its records.
// maxSize <= 0 disables the size check.
func ReadRecords(path string, maxSize int64) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Index: -1, Err: err}
	}
	defer f.Close()

	if maxSize > 0 {
		if info, err := f.Stat(); err == nil && info.Size() > maxSize {
			return nil, &InputError{Path: path, Index: -1,
				Err: fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, info.Size(), maxSize)}
		}
	}

	records, err := DecodeRecords(f, maxSize)
	if err != nil {
		var ie *InputError
		if errors.As(err, &ie) {
			ie.Path = path
			return nil, ie
		}
		return nil, &InputError{Path: path, Index: -1, Err: err}
	}
	return records, nil
}

// DecodeRecords decodes a JSON array of records from r.
// maxSize <= 0 disables the size check.
func DecodeRecords(r io.Reader, maxSize int64) ([]Record, error) {
	r = SkipBOM(r)
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputError{Index: -1, Err: err}
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, &InputError{Index: -1,
			Err: fmt.Errorf("%w: exceeds limit of %d bytes", ErrFileTooLarge, maxSize)}
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &InputError{Index: -1, Err: ErrEmptyInput}
	}
	if trimmed[0] != '[' {
		return nil, &InputError{Index: -1, Err: fmt.Errorf("%w: expected an array of records", ErrInvalidJSON)}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &InputError{Index: -1, Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}

	records := make([]Record, 0, len(elems))
	for i, elem := range elems {
		rec, err := decodeRecord(elem)
		if err != nil {
			return nil, &InputError{Index: i, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeRecord decodes a single record object.
func DecodeRecord(data []byte) (Record, error) {
	rec, err := decodeRecord(bytes.TrimSpace(SkipBOMBytes(data)))
	if err != nil {
		return Record{}, &InputError{Index: -1, Err: err}
	}
	return rec, nil
}

// SkipBOMBytes drops a leading UTF-8 BOM from data.
func SkipBOMBytes(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// decodeRecord checks that every key is present before decoding the values.
func decodeRecord(elem json.RawMessage) (Record, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(elem, &keys); err != nil || keys == nil {
		return Record{}, fmt.Errorf("%w: record is not an object", ErrInvalidJSON)
	}
	for _, name := range RecordFields {
		if _, ok := keys[name]; !ok {
			return Record{}, fmt.Errorf("%w %q", ErrMissingField, name)
		}
	}

	var rec Record
	if err := json.Unmarshal(elem, &rec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Record{}, fmt.Errorf("%w: %q must be a string, got %s", ErrInvalidValue, typeErr.Field, typeErr.Value)
		}
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return rec, nil
}
