package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/graphbridge/graphbridge"
	"github.com/graphbridge/graphbridge/database"
	"github.com/graphbridge/graphbridge/database/neo4j"
	"github.com/graphbridge/graphbridge/gateway"
	"github.com/graphbridge/graphbridge/util"
	"github.com/spf13/cobra"
)

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "graphbridge",
		Short:         "Move graph exports into Neo4j, tensors, or an MCP query gateway",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(
		loadCommand(),
		tensorCommand(),
		serveCommand(),
		guideCommand(),
		queriesCommand(),
	)

	return cmd
}

// storeFlags are the connection settings shared by every command that talks to a store.
type storeFlags struct {
	uri      string
	username string
	password string
}

func (s *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.uri, "uri", gateway.DefaultURI, "store URI")
	cmd.Flags().StringVar(&s.username, "user", gateway.DefaultUsername, "store username")
	cmd.Flags().StringVar(&s.password, "password", "", "store password")
}

func (s *storeFlags) config() gateway.Config {
	return gateway.Config{
		URI:      s.uri,
		Username: s.username,
		Password: s.password,
	}.WithDefaults()
}

func openStore(ctx context.Context, config gateway.Config) (database.Instance, error) {
	connectionString, err := config.ConnectionString()

	if err != nil {
		return nil, err
	}

	return graphbridge.Open(ctx, neo4j.DriverName, graphbridge.Config{
		ConnectionString: connectionString,
	})
}

// reportConnectionError prints the failure along with troubleshooting guidance when the store was
// unreachable.
func reportConnectionError(err error) {
	var connectionErr *database.ConnectionError

	fmt.Fprintln(os.Stderr, err)

	if util.IsNeoAuthError(err) {
		fmt.Fprintln(os.Stderr, "The store rejected the supplied credentials. Check --user and --password.")
	} else if errors.As(err, &connectionErr) {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, database.ConnectionGuidance)
	}
}
