package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"policysim/pkg/contracts/domain"
)

// ParsePolicyWorkbook reads a policy book from an Excel workbook. The
// policy sheet is located by name, falling back to header sniffing when
// the book uses a non-standard sheet name.
func ParsePolicyWorkbook(filePath string, logger *slog.Logger) ([]domain.Policy, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, sheet, err := findPolicySheet(f)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("parsing policy workbook", "path", filePath, "sheet", sheet, "rows", len(rows))
	}

	cols, err := columnIndex(normalizeHeader(rows[0]), PolicyCSVHeader)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	var policies []domain.Policy
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue // skip blank trailing rows
		}
		if len(row) < len(PolicyCSVHeader) {
			return nil, fmt.Errorf("sheet %q row %d: expected %d cells, got %d",
				sheet, i+2, len(PolicyCSVHeader), len(row))
		}

		inception, err := parseDate(strings.TrimSpace(row[cols["inception_date"]]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: inception date: %w", sheet, i+2, err)
		}
		expiration, err := parseDate(strings.TrimSpace(row[cols["expiration_date"]]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: expiration date: %w", sheet, i+2, err)
		}
		premium, err := strconv.ParseFloat(strings.TrimSpace(row[cols["written_premium"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: written premium: %w", sheet, i+2, err)
		}

		policy := domain.Policy{
			ID:             strings.TrimSpace(row[cols["id"]]),
			PolicyNumber:   strings.TrimSpace(row[cols["policy_number"]]),
			InceptionDate:  inception,
			ExpirationDate: expiration,
			WrittenPremium: premium,
			Status:         domain.PolicyStatus(strings.TrimSpace(row[cols["status"]])),
		}
		if !policy.IsValid() {
			return nil, fmt.Errorf("sheet %q row %d: invalid policy record %q", sheet, i+2, policy.PolicyNumber)
		}
		policies = append(policies, policy)
	}

	if len(policies) == 0 {
		return nil, fmt.Errorf("sheet %q contains no policy rows", sheet)
	}
	return policies, nil
}

// findPolicySheet locates the sheet holding policy rows.
func findPolicySheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range []string{"Policies", "policies", "Policy Book"} {
		if rows, err := f.GetRows(name); err == nil && len(rows) > 1 {
			return rows, name, nil
		}
	}

	// Fall back to the first sheet whose header looks like a policy book.
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		header := strings.ToLower(strings.Join(rows[0], " "))
		if strings.Contains(header, "policy_number") && strings.Contains(header, "written_premium") {
			return rows, name, nil
		}
	}

	return nil, "", fmt.Errorf("no policy sheet found in workbook")
}

// normalizeHeader lower-cases and trims workbook header cells so books
// edited by hand still match the canonical schema.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}
