package model

// FilterSet is the sparse predicate set extracted from a user query.
// Only the keys below are ever populated; the extraction prompt forbids
// anything else, and unknown keys are dropped during JSON decoding.
type FilterSet struct {
	VendorName             string `json:"vendor_name,omitempty"`
	ContractType           string `json:"contract_type,omitempty"`
	AuditStatus            string `json:"audit_status,omitempty"`
	Region                 string `json:"region,omitempty"`
	Jurisdiction           string `json:"jurisdiction,omitempty"`
	PolicyName             string `json:"policy_name,omitempty"`
	ComplianceScoreMin     *int   `json:"compliance_score_min,omitempty"`
	ComplianceScoreMax     *int   `json:"compliance_score_max,omitempty"`
	ComplianceScoreBetween []int  `json:"compliance_score_between,omitempty"`
	DurationMin            *int   `json:"duration_min,omitempty"`
	DurationMax            *int   `json:"duration_max,omitempty"`
	LastNMonths            *int   `json:"last_n_months,omitempty"`
}

// IsEmpty reports whether no predicate is present. An empty FilterSet
// means "match everything", never an error.
func (f FilterSet) IsEmpty() bool {
	return f.VendorName == "" &&
		f.ContractType == "" &&
		f.AuditStatus == "" &&
		f.Region == "" &&
		f.Jurisdiction == "" &&
		f.PolicyName == "" &&
		f.ComplianceScoreMin == nil &&
		f.ComplianceScoreMax == nil &&
		len(f.ComplianceScoreBetween) == 0 &&
		f.DurationMin == nil &&
		f.DurationMax == nil &&
		f.LastNMonths == nil
}
