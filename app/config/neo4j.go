package config

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// InitNeo4j initializes the Neo4j driver and returns it.
func InitNeo4j(cfg StoreConfig) (neo4j.DriverWithContext, error) {
	return neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
}
