package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadPasswords reads the shared-secret list from a CSV file with a
// "password" header column. The file is re-read on every verification
// attempt so operators can rotate secrets without a restart. A missing file
// yields an empty set.
func LoadPasswords(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("open passwords: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("read passwords header: %w", err)
	}
	col := columnIndex(header, "password")

	passwords := map[string]struct{}{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read passwords row: %w", err)
		}
		if col >= len(row) {
			continue
		}
		if pwd := strings.TrimSpace(row[col]); pwd != "" {
			passwords[pwd] = struct{}{}
		}
	}
	return passwords, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return 0
}
