package leads

import (
	"github.com/smallbiznis/payslip/internal/payroll/domain"
)

// pushRule decides, for one export generation, whether a lead reached the client.
type pushRule struct {
	column string
	pushed func(value string) bool
}

var pushedFlagValues = map[string]struct{}{
	"yes":    {},
	"y":      {},
	"true":   {},
	"1":      {},
	"pushed": {},
}

// pushRules are probed in order; the first column present in the export wins.
var pushRules = []pushRule{
	{
		column: domain.ColumnLeadStatus,
		pushed: func(v string) bool { return domain.Normalize(v) == "pushed to client" },
	},
	{
		column: domain.ColumnPushedToClient,
		pushed: func(v string) bool {
			_, ok := pushedFlagValues[domain.Normalize(v)]
			return ok
		},
	},
}

// detectPushRule picks the push rule matching the export's schema. ambiguous is
// set when more than one push column is present.
func detectPushRule(t domain.Table) (rule pushRule, ambiguous bool, err error) {
	found := 0
	for _, r := range pushRules {
		if !t.HasColumn(r.column) {
			continue
		}
		if found == 0 {
			rule = r
		}
		found++
	}
	if found == 0 {
		return pushRule{}, false, &domain.SchemaError{
			Source:  domain.SourceLeads,
			Missing: []string{domain.ColumnLeadStatus + " or " + domain.ColumnPushedToClient},
			Cause:   domain.ErrMissingPushColumn,
		}
	}
	return rule, found > 1, nil
}
