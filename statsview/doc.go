// Package statsview is an optional package that will built only when the
// statsview build constraint is present
//
//	It provides a HTTP server running locally offering runtime statistics.
//	Underlying funcionality provided by "github.com/go-echarts/statsview"
//
//	After launch, graphical statistics will be viewable at:
//
//		localhost:12790/debug/statsview
//
//	And standard Go pprof statistics available at:
//
//		localhost:12790/debug/pprof/
package statsview
