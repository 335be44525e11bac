package main

import (
	"fmt"
	"os"

	"github.com/graphbridge/graphbridge/export"
	"github.com/graphbridge/graphbridge/hetero"
	"github.com/spf13/cobra"
)

func tensorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tensor <export.json>",
		Short: "Assemble a tensor export into a heterogeneous dataset and describe its shapes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}

			content, err := os.ReadFile(args[0])

			if err != nil {
				return fmt.Errorf("unable to read %s: %w", args[0], err)
			}

			document, err := export.Parse(content)

			if err != nil {
				return err
			}

			if document.Kind() != export.DocumentKindTensor {
				return fmt.Errorf("%s is a %s document, not a tensor document", args[0], document.Kind())
			}

			dataset, err := hetero.Assemble(document.Tensor)

			if err != nil {
				return err
			}

			fmt.Print(dataset.Summary())
			return nil
		},
	}
}
