package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"careerguide-workers/internal/common/validation"
	"careerguide-workers/pkg/registry"

	"github.com/spf13/cobra"
)

type activitySummary struct {
	TaskType    string   `json:"taskType"`
	Version     string   `json:"version"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Timeout     string   `json:"timeout"`
	Retries     int      `json:"retries"`
	ErrorCodes  []string `json:"errorCodes"`
	HasSchema   bool     `json:"hasInputSchema"`
	Description string   `json:"description,omitempty"`
}

func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and check the activity registry",
	}
	cmd.PersistentFlags().String("path", "", "registry file (default: the compiled-in registry)")

	cmd.AddCommand(newRegistryListCmd(), newRegistryCheckCmd())
	return cmd
}

// loadRegistry reads the registry and compiles every input schema, so a
// registry that loads here also loads in the worker manager.
func loadRegistry(cmd *cobra.Command) (*registry.ActivityRegistry, *validation.Validator, error) {
	path, _ := cmd.Flags().GetString("path")
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, nil, err
	}
	v, err := validation.NewValidator(reg)
	if err != nil {
		return nil, nil, err
	}
	return reg, v, nil
}

func newRegistryListCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, v, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			out := make([]activitySummary, 0, len(reg.Activities))
			for _, a := range reg.Activities {
				if category != "" && !strings.EqualFold(a.Category, category) {
					continue
				}
				out = append(out, activitySummary{
					TaskType:    a.TaskType,
					Version:     a.Version,
					Category:    a.Category,
					Status:      a.ImplementationStatus,
					Timeout:     a.TimeoutOr(30 * time.Second).String(),
					Retries:     a.Retries,
					ErrorCodes:  a.ErrorCodes,
					HasSchema:   v.Has(a.TaskType),
					Description: a.Description,
				})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list activities in this category")
	return cmd
}

func newRegistryCheckCmd() *cobra.Command {
	var taskType, variables, variablesFile string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the registry, and optionally job variables against one task type",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, v, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			if taskType == "" {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"valid":     true,
					"version":   reg.Version,
					"taskTypes": reg.TaskTypes(),
				})
			}

			if _, ok := reg.Find(taskType); !ok {
				return fmt.Errorf("task type %q is not registered", taskType)
			}
			if variablesFile != "" {
				data, err := os.ReadFile(variablesFile)
				if err != nil {
					return fmt.Errorf("read variables: %w", err)
				}
				variables = string(data)
			}
			if err := v.Validate(taskType, variables); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"valid":    true,
				"taskType": taskType,
			})
		},
	}
	cmd.Flags().StringVar(&taskType, "task", "", "task type whose input schema to check against")
	cmd.Flags().StringVar(&variables, "variables", "{}", "job variables as a JSON document")
	cmd.Flags().StringVar(&variablesFile, "variables-file", "", "read job variables from a file")
	return cmd
}
