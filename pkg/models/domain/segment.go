package domain

type SegmentProfile struct {
	Segment            string
	Sessions           float64
	PagesPerSession    float64
	Transactions       float64
	AvgSessionDuration float64
	RevenueMean        float64
	RevenueSum         float64
	Customers          int
	Percentage         float64
}
