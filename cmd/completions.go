package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// completeMaps returns a completion function for saved map names.
func completeMaps(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.MapRepo == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names, err := ctx.MapRepo.Names()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, n := range names {
		if strings.HasPrefix(n, toComplete) {
			completions = append(completions, n)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
