package cerealdex

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// PictureColumn is the optional CSV column naming an existing picture file
const PictureColumn = "picturepath"

// ReadCSV parses a header row of column names followed by one cereal per
// record. Blank header cells are ignored. The picture column, when present,
// is returned separately for each record.
func ReadCSV(r io.Reader) (rows []map[string]string, pictures []string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, InvalidInputError("", "csv is empty")
	}
	if err != nil {
		return nil, nil, Wrap(ErrInvalidInput, "read csv header", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, Wrap(ErrInvalidInput, "read csv", err)
		}
		fields := make(map[string]string, len(header))
		pic := ""
		for i, col := range header {
			if col == "" || i >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[i])
			if col == PictureColumn {
				pic = v
				continue
			}
			fields[col] = v
		}
		rows = append(rows, fields)
		pictures = append(pictures, pic)
	}
	return rows, pictures, nil
}

// ImportCSV bulk adds the cereals of a CSV document. Records that do not
// coerce are skipped; picture paths are attached to the stored rows.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (BulkResult, error) {
	rows, pictures, err := ReadCSV(r)
	if err != nil {
		return BulkResult{}, err
	}
	return s.bulkAdd(ctx, rows, pictures)
}
