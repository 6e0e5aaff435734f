package batch

import (
	"fmt"
	"strings"
)

const FlowVersionV1 = "v1"

// ValidateFlowConfig validates v1 flow schema and required fields.
func ValidateFlowConfig(cfg FlowConfig) error {
	cfg.withDefaults()

	if strings.TrimSpace(cfg.Version) != FlowVersionV1 {
		return fmt.Errorf("unsupported version: %q (expected %q)", cfg.Version, FlowVersionV1)
	}
	if cfg.Source.Type != "csv" && cfg.Source.Type != "sql" {
		return fmt.Errorf("unsupported source.type: %s", cfg.Source.Type)
	}
	if cfg.Sink.Type != "csv" && cfg.Sink.Type != "sql" && cfg.Sink.Type != "redis" {
		return fmt.Errorf("unsupported sink.type: %s", cfg.Sink.Type)
	}

	if cfg.Source.Type == "sql" {
		if err := cfg.Source.DB.validate(); err != nil {
			return fmt.Errorf("source.db: %w", err)
		}
		for _, name := range []string{cfg.Source.SQL.FlightsTable, cfg.Source.SQL.AirportsTable} {
			if !identifierRe.MatchString(name) {
				return fmt.Errorf("source.sql: invalid table name %q", name)
			}
		}
		if o := cfg.Source.SQL.OrderBy; o == "" {
			return fmt.Errorf("source.sql.orderby is required: name the surrogate key column of both tables")
		} else if !identifierRe.MatchString(o) {
			return fmt.Errorf("source.sql: invalid orderby column %q", o)
		}
	}
	switch cfg.Sink.Type {
	case "sql":
		if err := cfg.Sink.DB.validate(); err != nil {
			return fmt.Errorf("sink.db: %w", err)
		}
		// result tables are named <prefix>t1 .. <prefix>t3
		if !identifierRe.MatchString(cfg.Sink.SQL.TablePrefix + "t1") {
			return fmt.Errorf("sink.sql: invalid tableprefix %q", cfg.Sink.SQL.TablePrefix)
		}
	case "redis":
		if cfg.Sink.Redis.Port <= 0 || cfg.Sink.Redis.Port > 65535 {
			return fmt.Errorf("sink.redis: invalid port %d", cfg.Sink.Redis.Port)
		}
		if strings.TrimSpace(cfg.Sink.RedisConfig.KeyPrefix) == "" {
			return fmt.Errorf("sink.redis_config.key_prefix is required for redis sink")
		}
	}

	if _, err := cfg.Transform.TaskList(); err != nil {
		return fmt.Errorf("transform.tasks: %w", err)
	}
	if _, err := cfg.Transform.Options(); err != nil {
		return fmt.Errorf("transform.join_miss: %w", err)
	}
	return nil
}
