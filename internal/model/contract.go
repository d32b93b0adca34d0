package model

// ContractRecord is one row of the contracts table. The pipeline only ever
// reads these; ingestion is owned elsewhere.
type ContractRecord struct {
	ContractID      int64  `db:"contract_id" json:"contract_id"`
	VendorName      string `db:"vendor_name" json:"vendor_name"`
	ContractType    string `db:"contract_type" json:"contract_type"`
	DurationMonths  int    `db:"duration_months" json:"duration_months"`
	ComplianceScore int    `db:"compliance_score" json:"compliance_score"`
	AuditStatus     string `db:"audit_status" json:"audit_status"`
	ContractDate    Date   `db:"contract_date" json:"contract_date"`
	Jurisdiction    string `db:"jurisdiction" json:"jurisdiction"`
	PolicyName      string `db:"policy_name" json:"policy_name"`
	Region          string `db:"region" json:"region"`
}

// RetrievedChunk is one passage returned by the vector search, scored with
// cosine similarity (higher is closer).
type RetrievedChunk struct {
	ChunkText       string  `db:"text_chunk" json:"chunk_text"`
	SimilarityScore float64 `db:"similarity_score" json:"similarity_score"`
	ContractID      int64   `db:"contract_id" json:"contract_id"`
	ContractType    string  `db:"contract_type" json:"contract_type"`
}

// PipelineResult is the complete answer payload for one query. It is built
// once per request and never returned partially filled.
type PipelineResult struct {
	Answer            string           `json:"answer"`
	RetrievedChunks   []RetrievedChunk `json:"retrieved_chunks"`
	StructuredRecords []ContractRecord `json:"structured_records"`
}
