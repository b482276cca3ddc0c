package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dreamware/shardadvisor/internal/catalog"
	"github.com/dreamware/shardadvisor/internal/config"
	"github.com/dreamware/shardadvisor/internal/costmodel"
	"github.com/dreamware/shardadvisor/internal/ingest"
)

// catalogPath is shared by every subcommand that needs a catalog/workload
// snapshot: a JSON fixture when --mongo-uri is unset, ignored entirely
// when it is set.
var catalogPath string

// loadCatalog resolves the catalog/workload snapshot a subcommand needs,
// preferring a live MongoDB connection when --mongo-uri is set and
// falling back to the --catalog JSON fixture otherwise.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if mongoURI == "" {
		if catalogPath == "" {
			return nil, fmt.Errorf("one of --mongo-uri or --catalog is required")
		}
		return ingest.FromBSONFile(catalogPath)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", mongoURI, err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(mongoDatabaseName(mongoURI))
	cat, err := ingest.CatalogFromMongo(ctx, db)
	if err != nil {
		return nil, err
	}
	workload, err := ingest.WorkloadFromMongo(ctx, db, time.Time{})
	if err != nil {
		return nil, err
	}
	return catalog.New(cat.Collections(), *workload), nil
}

// mongoDatabaseName extracts the database name from the connection
// string's path component, defaulting to "advisor" when the URI names
// none (e.g. a bare replica-set seed list).
func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "advisor"
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "advisor"
	}
	return name
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func costModelConfig(cfg config.Config) costmodel.Config {
	return costmodel.Config{
		WeightNetwork: cfg.WeightNetwork,
		WeightDisk:    cfg.WeightDisk,
		WeightSkew:    cfg.WeightSkew,
		Nodes:         cfg.Nodes,
		MaxMemoryMB:   cfg.MaxMemoryMB,
		AddressSize:   cfg.AddressSize,
		SkewIntervals: cfg.SkewIntervals,
	}
}
