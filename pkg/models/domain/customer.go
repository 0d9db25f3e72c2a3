package domain

const (
	ColAge                = "age"
	ColGender             = "gender"
	ColCountry            = "country"
	ColSessions           = "sessions"
	ColAvgSessionDuration = "avg_session_duration"
	ColPagesPerSession    = "pages_per_session"
	ColTransactions       = "transactions"

	ColCluster = "cluster"
	ColSegment = "segment"
)

// CustomerNumericColumns lists the customer columns held as numbers.
var CustomerNumericColumns = []string{
	ColAge, ColSessions, ColAvgSessionDuration, ColPagesPerSession, ColTransactions, ColRevenue,
}

// CustomerRecord is a raw customer row. Nil fields are missing in the source.
type CustomerRecord struct {
	Age                *float64
	Gender             *string
	Country            *string
	Sessions           *float64
	AvgSessionDuration *float64 // seconds
	PagesPerSession    *float64
	Transactions       *float64
	Revenue            *float64
}
