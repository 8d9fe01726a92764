package matching

// Weight constants for pattern ranking.
// Higher weights indicate more specific patterns.
const (
	// WeightNone is the weight of an empty pattern.
	WeightNone = 0

	// WeightPredicate is the weight of any predicate pattern.
	WeightPredicate = 1

	// WeightRegexpBase is added to the length of the expression source.
	WeightRegexpBase = 1

	// WeightRegexpMax caps regexp weights below every exact pattern.
	WeightRegexpMax = WeightExactBase - 1

	// WeightExactBase is added to the length of an exact pattern.
	WeightExactBase = 100
)
