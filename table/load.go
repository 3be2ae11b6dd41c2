package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// missing lists the fields that load as NaN in an otherwise numeric column.
var missing = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether s is a missing-value marker.
func IsMissing(s string) bool {
	_, ok := missing[s]
	return ok
}

// Load reads the tab-separated file at path.
func Load(path string) (*Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no input file given", ErrFileAccess)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		if errors.Is(err, ErrMalformedInput) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFileAccess, path, err)
	}
	return t, nil
}

// Parse reads headerless tab-separated records from r.
//
// Blank lines are skipped. The first record fixes the column count and every
// other record must match it.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	var fields [][]string
	width := -1
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line != "" {
			lineNo++
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if line != "" {
				if !utf8.ValidString(line) {
					return nil, fmt.Errorf("%w: line %d: invalid UTF-8", ErrMalformedInput, lineNo)
				}
				rec := strings.Split(line, "\t")
				if width < 0 {
					width = len(rec)
					fields = make([][]string, width)
				}
				if len(rec) != width {
					return nil, fmt.Errorf("%w: line %d: expected %d fields, saw %d", ErrMalformedInput, lineNo, width, len(rec))
				}
				for i, v := range rec {
					fields[i] = append(fields[i], v)
				}
			}
		}
		if err == io.EOF {
			break
		}
	}

	t := &Table{cols: make([]Column, len(fields))}
	for i, raw := range fields {
		t.cols[i] = newColumn(strconv.Itoa(i), raw)
	}
	if len(fields) > 0 {
		t.rows = len(fields[0])
	}
	return t, nil
}

func newColumn(name string, raw []string) Column {
	values := make([]float64, len(raw))
	for i, s := range raw {
		v, ok := parseNumber(s)
		if !ok {
			return Column{Name: name, Kind: KindText, Text: raw}
		}
		values[i] = v
	}
	return Column{Name: name, Kind: KindNumeric, Text: raw, Values: values}
}

// parseNumber parses a numeric field; missing markers yield NaN.
func parseNumber(s string) (float64, bool) {
	if IsMissing(s) {
		return math.NaN(), true
	}
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return math.NaN(), true
	}
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}
