package neo4j

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/graphbridge/graphbridge"
	"github.com/graphbridge/graphbridge/database"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	DefaultTransactionTimeout = time.Minute * 15

	// DefaultConcurrentConnections defines the default number of concurrent store sessions allowed.
	DefaultConcurrentConnections = 50

	ConnectionScheme = "neo4j"
	DriverName       = "neo4j"
)

func newNeo4jDB(ctx context.Context, cfg graphbridge.Config) (database.Instance, error) {
	if connectionURL, err := url.Parse(cfg.ConnectionString); err != nil {
		return nil, err
	} else if connectionURL.Scheme != ConnectionScheme {
		return nil, fmt.Errorf("expected connection URL scheme %s but got %s", ConnectionScheme, connectionURL.Scheme)
	} else if password, isSet := connectionURL.User.Password(); !isSet {
		return nil, fmt.Errorf("no password provided in connection URL")
	} else {
		boltURL := fmt.Sprintf("bolt://%s:%s", connectionURL.Hostname(), connectionURL.Port())

		if internalDriver, err := neo4j.NewDriverWithContext(boltURL, neo4j.BasicAuth(connectionURL.User.Username(), password, "")); err != nil {
			return nil, database.NewConnectionError(boltURL, err)
		} else if err := internalDriver.VerifyConnectivity(ctx); err != nil {
			return nil, database.NewConnectionError(boltURL, err)
		} else {
			return New(internalDriver), nil
		}
	}
}

func init() {
	graphbridge.Register(DriverName, func(ctx context.Context, cfg graphbridge.Config) (database.Instance, error) {
		return newNeo4jDB(ctx, cfg)
	})
}
