package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/pkg/address"
)

var validateCmd = &cobra.Command{
	Use:   "validate [address...]",
	Short: "Check the configuration and optionally which chains accept the given addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		chains, err := cfg.ChainIDs()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "config:       %s\n", configPath())
		fmt.Fprintf(out, "chains:       %s\n", joinChains(chains))
		fmt.Fprintf(out, "providers:    %s\n", strings.Join(cfg.Benchmark.Providers, ", "))
		fmt.Fprintf(out, "min sleep:    %s\n", cfg.MinSleep())
		fmt.Fprintf(out, "max attempts: %d\n", cfg.Benchmark.MaxAttempts)
		fmt.Fprintf(out, "datasets:     %d\n", len(cfg.KeyDatasets()))

		validator := address.NewValidator()
		for _, addr := range args {
			var valid []entity.ChainID
			for _, chain := range entity.AllChains {
				if validator.IsValid(chain, addr) {
					valid = append(valid, chain)
				}
			}
			if len(valid) == 0 {
				fmt.Fprintf(out, "%s: not valid on any chain\n", addr)
				continue
			}
			fmt.Fprintf(out, "%s: %s\n", addr, joinChains(valid))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func joinChains(chains []entity.ChainID) string {
	names := make([]string, len(chains))
	for i, c := range chains {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
