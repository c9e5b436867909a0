package persist

import (
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/ahp/schema"
)

// PrintSubmissionStatus prints submission store status information.
func PrintSubmissionStatus(status schema.SubmissionStatus) {
	fmt.Printf("Submission Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Submissions: %d\n", status.TotalSubmissions)
	fmt.Printf("Total Experts: %d\n", status.TotalExperts)
	if status.TotalSubmissions > 0 {
		fmt.Printf("Last Submission: %s\n", status.LastSubmissionTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Submission: %s\n", status.OldestSubmissionTime.Format("2006-01-02 15:04:05"))
	}
	printTableSizes(status.TableSizes)
}

// PrintConsensusStatus prints consensus store status information.
func PrintConsensusStatus(status schema.ConsensusStatus) {
	fmt.Printf("Consensus Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	}
	printTableSizes(status.TableSizes)
}

func printTableSizes(sizes map[string]int64) {
	fmt.Println("Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(sizes)) {
		fmt.Printf("  %s: %d rows\n", table, sizes[table])
	}
}
