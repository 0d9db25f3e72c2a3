package api

type SegmentProfile struct {
	Segment            string  `json:"segment"`
	Sessions           float64 `json:"sessions"`
	PagesPerSession    float64 `json:"pages_per_session"`
	Transactions       float64 `json:"transactions"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
	RevenueMean        float64 `json:"revenue_mean"`
	RevenueSum         float64 `json:"revenue_sum"`
	Customers          int     `json:"customer_count"`
	Percentage         float64 `json:"percentage"`
}

type SegmentsResponse struct {
	Segments []SegmentProfile `json:"segments"`
}
