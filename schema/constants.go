// Package schema holds the models shared by every part of ahp: the questionnaire
// hierarchy, judgments and their key adapter, results, consensus and store records.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// AggregationMode represents the rule used to combine expert judgments.
	AggregationMode string

	// WeightMethod records which estimator produced a priority vector.
	WeightMethod string
)

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	CSVOut      OutputMode = "csv"
	JSONOut     OutputMode = "json"
	ParquetOut  OutputMode = "parquet"
	XLSXOut     OutputMode = "xlsx"
	MarkdownOut OutputMode = "markdown"
	HTMLOut     OutputMode = "html"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All aggregation modes supported.
const (
	AIJMode  AggregationMode = "aij"  // aggregation of individual judgments
	AIPMode  AggregationMode = "aip"  // aggregation of individual priorities
	BothMode AggregationMode = "both" // default
)

// All weight estimators.
const (
	GeometricMeanMethod WeightMethod = "geometric_mean"
	EigenvectorMethod   WeightMethod = "eigenvector"
	UniformMethod       WeightMethod = "uniform"
	TrivialMethod       WeightMethod = "trivial"
)

// PairDelimiter separates the two labels of a stored judgment key.
const PairDelimiter = "|||"

// DefaultCRThreshold is the conventional consistency ratio above which a judgment set is flagged.
const DefaultCRThreshold = 0.1

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	CSVOut:      {},
	JSONOut:     {},
	ParquetOut:  {},
	XLSXOut:     {},
	MarkdownOut: {},
	HTMLOut:     {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidAggregationModes lists all valid aggregation modes.
var ValidAggregationModes = map[AggregationMode]struct{}{
	AIJMode:  {},
	AIPMode:  {},
	BothMode: {},
}

// RandomIndex holds Saaty's random consistency index for matrices of order 1..10.
var RandomIndex = map[int]float64{
	1:  0.0,
	2:  0.0,
	3:  0.58,
	4:  0.90,
	5:  1.12,
	6:  1.24,
	7:  1.32,
	8:  1.41,
	9:  1.45,
	10: 1.49,
}

// DefaultRandomIndex is used for matrices larger than the table covers.
const DefaultRandomIndex = 1.49
