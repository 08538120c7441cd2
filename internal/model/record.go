package model

// RecordHeader is the first line of every persisted record stream.
const RecordHeader = "path_index,mean,min,max,std_dev,last_price"

// PathRecord summarizes the daily closes of one simulated path.
type PathRecord struct {
	// Index is the zero-based path index plus one.
	Index     int64
	Mean      float64
	Min       float64
	Max       float64
	StdDev    float64
	LastPrice float64
}
