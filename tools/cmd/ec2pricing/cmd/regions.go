// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) newRegionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the known regions and their locations",
		Args:  parseArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tLOCATION")
			for _, r := range a.regions.All() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Label)
			}
			return tw.Flush()
		},
	}
}
