package stats

import (
	"testing"

	"github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.Table {
	return domain.Table{
		Columns: []string{"Agent Name", "Lead Result", "Score"},
		Rows: []domain.Row{
			{"Agent Name": "Jane Doe", "Lead Result": "qualified", "Score": "10"},
			{"Agent Name": "Jane Doe", "Lead Result": "disqualified", "Score": "4"},
			{"Agent Name": "John Roe", "Lead Result": "qualified", "Score": "n/a"},
			{"Agent Name": "John Roe", "Lead Result": "call back", "Score": "3"},
			{"Agent Name": "Mary Major", "Lead Result": "qualified", "Score": ""},
			{"Agent Name": "", "Lead Result": "", "Score": "100"},
		},
	}
}

func TestMode(t *testing.T) {
	value, n, err := Mode(sample(), "Lead Result")
	require.NoError(t, err)
	assert.Equal(t, "qualified", value)
	assert.Equal(t, 3, n)

	value, n, err = Mode(sample(), "Agent Name")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", value)
	assert.Equal(t, 2, n)

	_, _, err = Mode(domain.Table{Columns: []string{"Agent Name"}}, "Agent Name")
	assert.ErrorIs(t, err, ErrNoData)

	_, _, err = Mode(sample(), "Missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestTopN(t *testing.T) {
	entries, err := TopN(sample(), "Lead Result", 2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "qualified", Value: 3}, {Key: "disqualified", Value: 1}}, entries)

	entries, err = TopN(sample(), "Lead Result", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestGroupMeanAndSum(t *testing.T) {
	mean, err := GroupMean(sample(), "Agent Name", "Score")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "Jane Doe", Value: 7}, {Key: "John Roe", Value: 3}}, mean)

	sum, err := GroupSum(sample(), "Agent Name", "Score")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "Jane Doe", Value: 14}, {Key: "John Roe", Value: 3}, {Key: "Mary Major", Value: 0}}, sum)
}

func TestRun(t *testing.T) {
	res, err := Run(sample(), Query{Operation: OperationMode, Column: "Lead Result"})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "qualified", Value: 3}}, res.Entries)

	res, err = Run(sample(), Query{Operation: OperationGroupSum, GroupBy: "Agent Name", Column: "Score"})
	require.NoError(t, err)
	assert.Equal(t, "Agent Name", res.GroupBy)
	assert.Len(t, res.Entries, 3)

	_, err = Run(sample(), Query{Operation: "median", Column: "Score"})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
