package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"policysim/pkg/contracts/domain"
)

// DateFormat is the date layout used in every dataset CSV.
const DateFormat = "2006-01-02"

// Canonical CSV headers for the dataset files
var (
	PolicyCSVHeader = []string{"id", "policy_number", "inception_date", "expiration_date", "written_premium", "status"}
	ClaimCSVHeader  = []string{"id", "claim_number", "policy_id", "occurrence_date", "report_date", "severity", "status"}
)

// PolicyRecord converts a policy to its CSV record form.
func PolicyRecord(p domain.Policy) []string {
	return []string{
		p.ID,
		p.PolicyNumber,
		p.InceptionDate.Format(DateFormat),
		p.ExpirationDate.Format(DateFormat),
		strconv.FormatFloat(p.WrittenPremium, 'f', 2, 64),
		string(p.Status),
	}
}

// ClaimRecord converts a claim to its CSV record form.
func ClaimRecord(c domain.Claim) []string {
	return []string{
		c.ID,
		c.ClaimNumber,
		c.PolicyID,
		c.OccurrenceDate.Format(DateFormat),
		c.ReportDate.Format(DateFormat),
		strconv.FormatFloat(c.Severity, 'f', 2, 64),
		string(c.Status),
	}
}

// LoadPolicies reads a policy dataset CSV from disk.
func LoadPolicies(path string, logger *slog.Logger) ([]domain.Policy, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open policy file: %w", err)
	}
	defer file.Close()

	policies, err := ReadPolicies(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if logger != nil {
		logger.Info("loaded policy dataset", "path", path, "policies", len(policies))
	}
	return policies, nil
}

// ReadPolicies parses policy records from CSV data.
func ReadPolicies(r io.Reader) ([]domain.Policy, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, PolicyCSVHeader)
	if err != nil {
		return nil, err
	}

	var policies []domain.Policy
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		inception, err := parseDate(record[cols["inception_date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: inception date: %w", line, err)
		}
		expiration, err := parseDate(record[cols["expiration_date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: expiration date: %w", line, err)
		}
		premium, err := strconv.ParseFloat(record[cols["written_premium"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: written premium: %w", line, err)
		}

		policy := domain.Policy{
			ID:             record[cols["id"]],
			PolicyNumber:   record[cols["policy_number"]],
			InceptionDate:  inception,
			ExpirationDate: expiration,
			WrittenPremium: premium,
			Status:         domain.PolicyStatus(record[cols["status"]]),
		}
		if !policy.IsValid() {
			return nil, fmt.Errorf("line %d: invalid policy record %q", line, policy.PolicyNumber)
		}
		policies = append(policies, policy)
	}

	return policies, nil
}

// LoadClaims reads a claim dataset CSV from disk.
func LoadClaims(path string, logger *slog.Logger) ([]domain.Claim, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open claim file: %w", err)
	}
	defer file.Close()

	claims, err := ReadClaims(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if logger != nil {
		logger.Info("loaded claim dataset", "path", path, "claims", len(claims))
	}
	return claims, nil
}

// ReadClaims parses claim records from CSV data.
func ReadClaims(r io.Reader) ([]domain.Claim, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, ClaimCSVHeader)
	if err != nil {
		return nil, err
	}

	var claims []domain.Claim
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		occurrence, err := parseDate(record[cols["occurrence_date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: occurrence date: %w", line, err)
		}
		report, err := parseDate(record[cols["report_date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: report date: %w", line, err)
		}
		severity, err := strconv.ParseFloat(record[cols["severity"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: severity: %w", line, err)
		}

		claim := domain.Claim{
			ID:             record[cols["id"]],
			ClaimNumber:    record[cols["claim_number"]],
			PolicyID:       record[cols["policy_id"]],
			OccurrenceDate: occurrence,
			ReportDate:     report,
			Severity:       severity,
			Status:         domain.ClaimStatus(record[cols["status"]]),
		}
		if !claim.IsValid() {
			return nil, fmt.Errorf("line %d: invalid claim record %q", line, claim.ClaimNumber)
		}
		claims = append(claims, claim)
	}

	return claims, nil
}

// columnIndex maps the expected column names onto their positions,
// tolerating reordered columns but not missing ones.
func columnIndex(header, expected []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range expected {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
	}
	return cols, nil
}

// parseDate parses a dataset date in the canonical layout, as UTC midnight.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
