package main

import (
	"context"
	"fmt"
	"os"

	"github.com/graphbridge/graphbridge/export"
	"github.com/graphbridge/graphbridge/introspect"
	"github.com/graphbridge/graphbridge/loader"
	"github.com/graphbridge/graphbridge/util"
	"github.com/spf13/cobra"
)

const failureDisplayLimit = 10

func loadCommand() *cobra.Command {
	var (
		store        storeFlags
		clearFirst   bool
		useScript    bool
		stripMarkers bool
	)

	cmd := &cobra.Command{
		Use:   "load <export.json>",
		Short: "Import a graph export document into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}

			return runLoad(cmd.Context(), args[0], store, loader.Options{
				ClearFirst:   clearFirst,
				StripMarkers: stripMarkers,
			}, useScript)
		},
	}

	store.register(cmd)
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "wipe the store before importing")
	cmd.Flags().BoolVar(&useScript, "use-script", false, "replay the document's cypher script instead of its structured entities")
	cmd.Flags().BoolVar(&stripMarkers, "strip-markers", false, "remove import markers from nodes once the import finishes")

	return cmd
}

func runLoad(ctx context.Context, path string, store storeFlags, options loader.Options, useScript bool) error {
	content, err := os.ReadFile(path)

	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}

	document, err := export.Parse(content)

	if err != nil {
		return err
	}

	if useScript {
		if document.CypherScript == "" {
			return fmt.Errorf("%s carries no cypher script", path)
		}

		document = &export.Document{
			CypherScript: document.CypherScript,
		}
	}

	db, err := openStore(ctx, store.config())

	if err != nil {
		reportConnectionError(err)
		return err
	}

	defer db.Close(ctx)

	// Count failures are reported but never abort an import that otherwise succeeded
	countErrs := util.NewErrorCollector()

	if before, err := introspect.GetCounts(ctx, db); err != nil {
		countErrs.Add(fmt.Errorf("unable to count store entities before import: %w", err))
	} else {
		fmt.Printf("Store before import: %s\n", before)
	}

	outcome, err := loader.New(db, options).Load(ctx, document)

	if err != nil {
		return err
	}

	printOutcome(outcome)

	if after, err := introspect.GetCounts(ctx, db); err != nil {
		countErrs.Add(fmt.Errorf("unable to count store entities after import: %w", err))
	} else {
		fmt.Printf("Store after import: %s\n", after)
	}

	return countErrs.Combined()
}

func printOutcome(outcome *loader.Outcome) {
	fmt.Printf("Import run %s\n", outcome.RunID)

	if outcome.StatementsAttempted > 0 {
		fmt.Printf("  statements: %d of %d ran\n", outcome.StatementsRun, outcome.StatementsAttempted)
	} else {
		fmt.Printf("  nodes: %d of %d created\n", outcome.NodesCreated, outcome.NodesAttempted)
		fmt.Printf("  relationships: %d of %d created\n", outcome.RelationshipsCreated, outcome.RelationshipsAttempted)
		fmt.Printf("  distinct endpoints referenced: ~%d\n", outcome.DistinctEndpointEstimate())
	}

	if len(outcome.Failures) > 0 {
		fmt.Printf("  failures: %d\n", len(outcome.Failures))

		for idx, failure := range outcome.Failures {
			if idx >= failureDisplayLimit {
				fmt.Printf("    ... and %d more\n", len(outcome.Failures)-failureDisplayLimit)
				break
			}

			switch {
			case failure.NodeExternalID != "":
				fmt.Printf("    node %s: %s\n", failure.NodeExternalID, failure.Reason)
			case failure.Statement != "":
				fmt.Printf("    statement %.60q: %s\n", failure.Statement, failure.Reason)
			default:
				fmt.Printf("    relationship %s -> %s: %s\n", failure.StartExternalID, failure.EndExternalID, failure.Reason)
			}
		}
	}
}
