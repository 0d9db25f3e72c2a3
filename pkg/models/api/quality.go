package api

type ColumnStats struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	P25   *float64 `json:"25%"`
	P50   *float64 `json:"50%"`
	P75   *float64 `json:"75%"`
	Max   *float64 `json:"max"`
}

type DataQualityReport struct {
	TotalRecords  int                    `json:"total_records"`
	MissingValues map[string]int         `json:"missing_values"`
	Duplicates    int                    `json:"duplicates"`
	NumericStats  map[string]ColumnStats `json:"numeric_stats"`
}

// QualityResponse carries the quality of both raw input tables.
type QualityResponse struct {
	Campaigns DataQualityReport `json:"campaigns"`
	Customers DataQualityReport `json:"customers"`
}
