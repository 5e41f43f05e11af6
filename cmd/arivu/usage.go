package main

import "flag"

// runUsage prints accumulated cost/usage totals, either across every
// recorded call or scoped to a single run ID.
func runUsage(a *app, args []string) error {
	fs := flag.NewFlagSet("usage", flag.ContinueOnError)
	runID := fs.String("run", "", "summarize only the events recorded under this run ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *runID != "" {
		summary, err := a.pricing.SummarizeRun(*runID)
		if err != nil {
			return err
		}
		return printJSON(summary)
	}

	summary, err := a.pricing.SummarizeAll()
	if err != nil {
		return err
	}
	return printJSON(summary)
}
