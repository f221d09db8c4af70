package domain

// CandidateEvalReport is emitted once per candidate evaluation completion.
// All time fields are seconds relative to the processing job's start
// instant, except StartUnixTimestamp which is absolute epoch seconds.
type CandidateEvalReport struct {
	IterationStartTime               float64   `json:"iteration_start_time"`
	StartUnixTimestamp                float64   `json:"start_unix_timestamp"`
	CompletionTime                     float64   `json:"completion_time"`
	ObjFuncVal                         *float64  `json:"obj_func_val"`
	BestSeenObjFuncValBefore           *float64  `json:"best_seen_obj_func_val_before"`
	Candidate                          Candidate `json:"candidate"`
	LatestInterleavingCompletionTime   *float64  `json:"latest_interleaving_completion_time"`
}

// BestSeenEntry is one row of the best-seen table in a ProcessingState
// snapshot.
type BestSeenEntry struct {
	Candidate  Candidate `json:"candidate"`
	ObjFuncVal float64   `json:"obj_func_val"`
}

// ProcessingState is the live snapshot handed to a subscriber while the
// controller is in the Processing state.
type ProcessingState struct {
	RecentReports         []CandidateEvalReport `json:"recent_candidate_eval_reports"`
	BestSeen               []BestSeenEntry       `json:"best_seen"`
	Time                   float64               `json:"time"`
	WindowLengthHint       int                    `json:"window_length_hint"`
	BestSeenTableSizeHint int                    `json:"best_seen_table_size_hint"`
}
