package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dbimport/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Check a config file and print any issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, path string) error {
	cfg, err := config.Read(path)
	if err != nil {
		return err
	}
	issues := config.Validate(cfg)

	out := cmd.OutOrStdout()
	for _, iss := range issues {
		fmt.Fprintf(out, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if err := config.Err(issues); err != nil {
		fmt.Fprintf(out, "configuration is invalid: %s\n", path)
		return &reportedError{err}
	}
	fmt.Fprintf(out, "configuration is valid: %s\n", path)
	return nil
}
