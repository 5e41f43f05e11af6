package main

// runList prints every registered connector and its description.
func runList(a *app, args []string) error {
	return printJSON(a.registry.ListProviders())
}
