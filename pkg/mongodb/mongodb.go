package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second * 5
)

type Mongo struct {
	connAttempts int
	connTimeout  time.Duration

	Client   *mongo.Client
	Database *mongo.Database
}

func New(uri, database string, opts ...Option) (*Mongo, error) {
	m := &Mongo{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
	}

	for _, opt := range opts {
		opt(m)
	}

	var err error

	for m.connAttempts > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), m.connTimeout)

		m.Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			err = m.Client.Ping(ctx, readpref.Primary())
		}

		cancel()

		if err == nil {
			break
		}

		log.Infof("mongodb: trying to connect to database, attempts left: %d", m.connAttempts)
		time.Sleep(m.connTimeout)

		m.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect to database: %w", err)
	}

	m.Database = m.Client.Database(database)

	return m, nil
}

func (m *Mongo) Close() {
	if m.Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), m.connTimeout)
		defer cancel()

		if err := m.Client.Disconnect(ctx); err != nil {
			log.Errorf("mongodb: disconnect failed: %v", err)
		}
	}
}

func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}
