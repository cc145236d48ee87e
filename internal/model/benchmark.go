package model

// BenchmarkStat is the aggregate pass rate of one check across completed runs.
type BenchmarkStat struct {
	CheckID     string
	Category    Category
	PassRatePct float64
	CheckCount  int
	OwnerCount  int
}
