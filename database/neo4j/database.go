package neo4j

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graphbridge/graphbridge/database"
	"github.com/graphbridge/graphbridge/util/channels"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var ErrConcurrentConnectionSlotTimeOut = errors.New("timed out waiting for a connection slot")

type instance struct {
	internalDriver neo4j.DriverWithContext
	limiter        channels.ConcurrencyLimiter
}

func New(internalDriver neo4j.DriverWithContext) database.Instance {
	return &instance{
		internalDriver: internalDriver,
		limiter:        channels.NewConcurrencyLimiter(DefaultConcurrentConnections),
	}
}

func (s *instance) acquireInternalSession(ctx context.Context, options []database.Option) (neo4j.SessionWithContext, error) {
	// Attempt to acquire a connection slot or wait for a bit until one becomes available
	if !s.limiter.Acquire(ctx) {
		return nil, ErrConcurrentConnectionSlotTimeOut
	}

	sessionCfg := neo4j.SessionConfig{
		// Default to a write enabled session if no options are supplied
		AccessMode: neo4j.AccessModeWrite,
	}

	for _, option := range options {
		if option == database.OptionReadOnly {
			sessionCfg.AccessMode = neo4j.AccessModeRead
		}
	}

	return s.internalDriver.NewSession(ctx, sessionCfg), nil
}

func (s *instance) Session(ctx context.Context, driverLogic database.QueryLogic, options ...database.Option) error {
	if session, err := s.acquireInternalSession(ctx, options); err != nil {
		return err
	} else {
		// Release the connection slot when this function exits
		defer s.limiter.Release()

		defer func() {
			if err := session.Close(ctx); err != nil {
				slog.DebugContext(ctx, "failed to close session", slog.String("err", err.Error()))
			}
		}()

		return driverLogic(ctx, &sessionDriver{
			session: session,
		})
	}
}

func (s *instance) Close(ctx context.Context) error {
	return s.internalDriver.Close(ctx)
}
