package domain

type ColumnStats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

type DataQualityReport struct {
	TotalRecords  int
	MissingValues map[string]int
	Duplicates    int
	NumericStats  map[string]ColumnStats
}
