package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
)

var exportHeader = []string{
	"id", "title", "description", "status",
	"created_user_id", "updated_user_id", "deleted_user_id",
	"deleted_at", "created_at", "updated_at",
}

type csvPostRow struct {
	Line        int
	Title       string
	Description string
	Status      int
}

func writePostsCSV(w io.Writer, posts []*domain.Post) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, p := range posts {
		record := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Title,
			p.Description,
			strconv.Itoa(p.Status),
			strconv.FormatUint(uint64(p.CreatedUserID), 10),
			strconv.FormatUint(uint64(p.UpdatedUserID), 10),
			optionalID(p.DeletedUserID),
			optionalTime(p.DeletedAt),
			p.CreatedAt.UTC().Format(time.RFC3339),
			p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readPostsCSV checks the column count of every row, header included, and
// returns the data rows.
func readPostsCSV(r io.Reader) ([]csvPostRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, forms.NonField(fmt.Sprintf("line %d: malformed csv", pe.Line))
		}
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if errs := forms.CheckCSVRows(true, records); !errs.OK() {
		return nil, errs
	}
	rows := make([]csvPostRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		status, err := parseStatus(rec[2])
		if err != nil {
			return nil, forms.NonField(fmt.Sprintf("line %d: %v", line, err))
		}
		rows = append(rows, csvPostRow{Line: line, Title: rec[0], Description: rec[1], Status: status})
	}
	return rows, nil
}

func parseStatus(s string) (int, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return domain.PostPublished, nil
	case "0":
		return domain.PostUnpublished, nil
	default:
		return 0, fmt.Errorf("status must be 0 or 1, got %q", s)
	}
}

func optionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
