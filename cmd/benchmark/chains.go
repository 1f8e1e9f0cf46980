package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/infrastructure/providers"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List the supported chains and the providers covering each",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, chain := range entity.AllChains {
			fmt.Fprintf(out, "%-10s %s\n", chain, strings.Join(chainCoverage(chain), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chainsCmd)
}

// chainCoverage renders "provider(code)" for every provider that queries chain.
func chainCoverage(chain entity.ChainID) []string {
	var covered []string
	for _, name := range providers.Names() {
		def, ok := providers.Definition(name)
		if !ok {
			continue
		}
		if code, ok := def.CodeFor(chain); ok {
			covered = append(covered, fmt.Sprintf("%s(%s)", name, code))
		}
	}
	if len(covered) == 0 {
		return []string{"-"}
	}
	return covered
}
