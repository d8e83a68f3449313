package scoring

// ExpectedLevelByYear is the fixed maturity curve: years 1 and 2 expect
// level 1, year 3 expects level 2, and year 4 onward expects level 3.
func ExpectedLevelByYear(year int) int {
	switch {
	case year >= 4:
		return 3
	case year == 3:
		return 2
	default:
		return 1
	}
}
