package query

// Response is the canonical pipeline output: the translated SQL, a
// deduplicated ordered sequence of company identifiers, and an optional
// degraded row-mapping form when the result lacks an identifier column.
// A failed pipeline run yields a Response with empty results and a
// human-readable error string; callers distinguish failure from an empty
// result by inspecting Err, never by response shape.
type Response struct {
	question   string
	sql        string
	companyIDs []int64
	rows       []map[string]any
	err        string
}

// NewResponse creates a successful identifier-sequence response.
func NewResponse(question, sql string, companyIDs []int64) Response {
	ids := make([]int64, len(companyIDs))
	copy(ids, companyIDs)
	return Response{question: question, sql: sql, companyIDs: ids}
}

// NewRowResponse creates a degraded response carrying raw row mappings
// because the result table had no recognizable identifier column.
func NewRowResponse(question, sql string, rows []map[string]any) Response {
	return Response{question: question, sql: sql, companyIDs: []int64{}, rows: rows}
}

// NewErrorResponse creates a failed-pipeline response. Failed responses
// carry no SQL, whichever stage failed.
func NewErrorResponse(question string, err error) Response {
	return Response{question: question, companyIDs: []int64{}, err: err.Error()}
}

// Question returns the original question.
func (r Response) Question() string { return r.question }

// SQL returns the translated SQL, or "" when the pipeline failed.
func (r Response) SQL() string { return r.sql }

// CompanyIDs returns the deduplicated identifier sequence, first
// occurrence order preserved. Never nil.
func (r Response) CompanyIDs() []int64 {
	ids := make([]int64, len(r.companyIDs))
	copy(ids, r.companyIDs)
	return ids
}

// Rows returns the degraded row-mapping form, or nil for identifier
// responses.
func (r Response) Rows() []map[string]any { return r.rows }

// Err returns the failure detail, or "" on success.
func (r Response) Err() string { return r.err }

// Failed reports whether the pipeline failed.
func (r Response) Failed() bool { return r.err != "" }
