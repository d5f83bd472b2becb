// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package dataset reads training and test files and writes prediction results.
//
// All files are comma-separated with a single header line that is skipped:
//
//	training: user,item,rating[,...]
//	test:     id,user,item
//	result:   id,rating
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/svdrec/internal/recommend"
)

var (
	// ErrFieldCount is returned for rows with too few fields.
	ErrFieldCount = errors.New("dataset: wrong number of fields")

	// ErrInvalidRating is returned for ratings outside 1..255.
	ErrInvalidRating = errors.New("dataset: rating must be in 1..255")
)

// ParseError reports a malformed row.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Query is one row of a test file.
type Query struct {
	// ID is copied verbatim to the result file.
	ID     string
	UserID int64
	ItemID int64
}

// Result is one row of a result file.
type Result struct {
	ID     string
	Rating int
}

// ReadRatings parses a training file. name is used in errors only.
func ReadRatings(r io.Reader, name string) ([]recommend.Rating, error) {
	var out []recommend.Rating
	err := eachRow(r, name, 3, func(fields []string) error {
		user, err := parseID(fields[0])
		if err != nil {
			return fmt.Errorf("user: %w", err)
		}
		item, err := parseID(fields[1])
		if err != nil {
			return fmt.Errorf("item: %w", err)
		}
		rating, err := parseRating(fields[2])
		if err != nil {
			return err
		}
		out = append(out, recommend.Rating{UserID: user, ItemID: item, Rating: rating})
		return nil
	})
	return out, err
}

// ReadRatingFiles reads and concatenates training files in argument order.
func ReadRatingFiles(paths ...string) ([]recommend.Rating, error) {
	var all []recommend.Rating
	for _, path := range paths {
		rows, err := readFile(path, ReadRatings)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

// ReadQueries parses a test file. name is used in errors only.
func ReadQueries(r io.Reader, name string) ([]Query, error) {
	var out []Query
	err := eachRow(r, name, 3, func(fields []string) error {
		user, err := parseID(fields[1])
		if err != nil {
			return fmt.Errorf("user: %w", err)
		}
		item, err := parseID(fields[2])
		if err != nil {
			return fmt.Errorf("item: %w", err)
		}
		out = append(out, Query{ID: strings.TrimSpace(fields[0]), UserID: user, ItemID: item})
		return nil
	})
	return out, err
}

// ReadQueryFile reads a test file from disk.
func ReadQueryFile(path string) ([]Query, error) {
	return readFile(path, ReadQueries)
}

// WriteResults writes the header followed by one row per result.
func WriteResults(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "rating"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, res := range results {
		if err := cw.Write([]string{res.ID, strconv.Itoa(res.Rating)}); err != nil {
			return fmt.Errorf("write result %s: %w", res.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultFile creates (or truncates) path and writes results to it.
func WriteResultFile(path string, results []Result) (err error) {
	f, err := os.Create(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close result file: %w", cerr)
		}
	}()
	return WriteResults(f, results)
}

func readFile[T any](path string, parse func(io.Reader, string) ([]T, error)) ([]T, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f, path)
}

// eachRow calls fn for every record after the header. Records with fewer
// than minFields fields, and errors returned by fn, become a *ParseError.
func eachRow(r io.Reader, name string, minFields int, fn func([]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return &ParseError{File: name, Line: csvErr.Line, Err: csvErr.Err}
			}
			return fmt.Errorf("read %s: %w", name, err)
		}
		if header {
			header = false
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(record) < minFields {
			return &ParseError{File: name, Line: line, Err: fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(record), minFields)}
		}
		if err := fn(record); err != nil {
			return &ParseError{File: name, Line: line, Err: err}
		}
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseRating(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return uint8(v), nil
}
