package main

// runFormats prints every resolver pattern the fetch command can match.
func runFormats(a *app, args []string) error {
	return printJSON(a.resolver.ListPatterns())
}
