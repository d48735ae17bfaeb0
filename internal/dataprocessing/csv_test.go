package dataprocessing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/pkg/contracts/domain"
)

const policyCSV = `id,policy_number,inception_date,expiration_date,written_premium,status
11111111-1111-1111-1111-111111111111,POL-2023-00001,2023-01-01,2023-12-31,1200.00,in_force
22222222-2222-2222-2222-222222222222,POL-2023-00002,2023-07-01,2024-06-30,1350.50,expired
`

const claimCSV = `id,claim_number,policy_id,occurrence_date,report_date,severity,status
33333333-3333-3333-3333-333333333333,CLM-00000001,11111111-1111-1111-1111-111111111111,2023-03-15,2023-03-20,5250.75,closed
`

// TestReadPolicies tests parsing of the canonical policy CSV
func TestReadPolicies(t *testing.T) {
	policies, err := ReadPolicies(strings.NewReader(policyCSV))
	require.NoError(t, err)
	require.Len(t, policies, 2)

	first := policies[0]
	assert.Equal(t, "POL-2023-00001", first.PolicyNumber)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), first.InceptionDate)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), first.ExpirationDate)
	assert.InDelta(t, 1200.0, first.WrittenPremium, 1e-9)
	assert.Equal(t, domain.PolicyStatusInForce, first.Status)

	assert.Equal(t, domain.PolicyStatusExpired, policies[1].Status)
}

// TestReadPoliciesReorderedColumns tests column-order independence
func TestReadPoliciesReorderedColumns(t *testing.T) {
	reordered := `written_premium,policy_number,id,status,expiration_date,inception_date
990.00,POL-X,abc,in_force,2024-12-31,2024-01-01
`
	policies, err := ReadPolicies(strings.NewReader(reordered))
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, "POL-X", policies[0].PolicyNumber)
	assert.InDelta(t, 990.0, policies[0].WrittenPremium, 1e-9)
}

// TestReadPoliciesErrors tests malformed input rejection
func TestReadPoliciesErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			"missing column",
			"id,policy_number,inception_date\nx,POL,2023-01-01\n",
			"missing column",
		},
		{
			"bad date",
			"id,policy_number,inception_date,expiration_date,written_premium,status\nx,POL,01/02/2023,2023-12-31,100,in_force\n",
			"inception date",
		},
		{
			"bad premium",
			"id,policy_number,inception_date,expiration_date,written_premium,status\nx,POL,2023-01-01,2023-12-31,abc,in_force\n",
			"written premium",
		},
		{
			"expiration before inception",
			"id,policy_number,inception_date,expiration_date,written_premium,status\nx,POL,2023-12-31,2023-01-01,100,in_force\n",
			"invalid policy record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPolicies(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestReadClaims tests parsing of the canonical claim CSV
func TestReadClaims(t *testing.T) {
	claims, err := ReadClaims(strings.NewReader(claimCSV))
	require.NoError(t, err)
	require.Len(t, claims, 1)

	c := claims[0]
	assert.Equal(t, "CLM-00000001", c.ClaimNumber)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", c.PolicyID)
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), c.OccurrenceDate)
	assert.InDelta(t, 5250.75, c.Severity, 1e-9)
	assert.Equal(t, domain.ClaimStatusClosed, c.Status)
}

// TestRecordRoundTrip tests that written records parse back identically
func TestRecordRoundTrip(t *testing.T) {
	policy := domain.Policy{
		ID:             "abc",
		PolicyNumber:   "POL-2024-00007",
		InceptionDate:  time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC),
		WrittenPremium: 1573.21,
		Status:         domain.PolicyStatusInForce,
	}

	csvData := strings.Join(PolicyCSVHeader, ",") + "\n" + strings.Join(PolicyRecord(policy), ",") + "\n"
	parsed, err := ReadPolicies(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, policy, parsed[0])
}
