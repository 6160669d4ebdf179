// cmd/tools/scorectl/tasks.go
package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recruit-scoring/pkg/registry"
)

func newTasksCmd(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the Zeebe task types in the activity registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, reg.Activities)
			}

			rows := make([][]string, 0, len(reg.Activities))
			for _, a := range reg.Activities {
				rows = append(rows, []string{a.TaskType, a.DisplayName, a.Timeout, strconv.Itoa(a.Retries), strings.Join(a.ErrorCodes, " ")})
			}
			return renderTable(out, []string{"Task Type", "Name", "Timeout", "Retries", "Error Codes"}, rows)
		},
	}

	cmd.Flags().StringVar(&path, "registry", registry.DefaultPath, "Activity registry file")
	return cmd
}
