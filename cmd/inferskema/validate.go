package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/inferskema/internal/validation"
)

var errNonConforming = errors.New("document does not conform to schema")

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema> <document>",
		Short: "Validate a JSON document against a JSON Schema",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runValidate,
	}
}

func (a *app) runValidate(cmd *cobra.Command, args []string) error {
	schema, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	v, err := validation.New(0)
	if err != nil {
		return err
	}
	res, err := v.Validate(data, schema)
	if err != nil {
		return err
	}
	if !res.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", res.Info)
		return errNonConforming
	}
	fmt.Fprintln(cmd.OutOrStdout(), "valid")
	return nil
}
