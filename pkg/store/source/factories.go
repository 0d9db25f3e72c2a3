package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
	"github.com/de-tools/campaign-atlas/pkg/store/duckdb"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"
)

const (
	PlatformDuckDB     = "duckdb"
	PlatformSnowflake  = "snowflake"
	PlatformDatabricks = "databricks"
	PlatformPostgres   = "postgres"
)

// DuckDBFactory opens a local DuckDB file, creating the marketing tables if needed.
func DuckDBFactory(_ context.Context, settings config.SourceSettings) (*sql.DB, error) {
	if settings.DSN == "" {
		return nil, errs.Configuration("source.dsn must point to a duckdb file")
	}
	return duckdb.NewDB(duckdb.Settings{DbPath: settings.DSN})
}

// LoadSnowflakeConfig reads connection parameters from a YAML profile.
func LoadSnowflakeConfig(profilePath string) (*sf.Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg sf.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse snowflake config: %w", err)
	}
	return &cfg, nil
}

// SnowflakeFactory expects source.profile to name a YAML file with account,
// user and password keys.
func SnowflakeFactory(ctx context.Context, settings config.SourceSettings) (*sql.DB, error) {
	if settings.Profile == "" {
		return nil, errs.Configuration("source.profile must point to a snowflake profile")
	}
	cfg, err := LoadSnowflakeConfig(settings.Profile)
	if err != nil {
		return nil, err
	}

	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("account", cfg.Account).Msg("opening snowflake source")
	return sql.Open("snowflake", dsn)
}

func defaultDatabricksCfg() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".databrickscfg"
	}
	return filepath.Join(home, ".databrickscfg")
}

// DatabricksFactory resolves source.profile in the .databrickscfg file named by
// source.dsn, or in ~/.databrickscfg when dsn is empty.
func DatabricksFactory(ctx context.Context, settings config.SourceSettings) (*sql.DB, error) {
	if settings.Profile == "" {
		return nil, errs.Configuration("source.profile must name a databricks profile")
	}
	path := settings.DSN
	if path == "" {
		path = defaultDatabricksCfg()
	}

	profiles, err := config.NewProfileRegistry(path)
	if err != nil {
		return nil, err
	}
	cfg, err := profiles.GetConfig(ctx, settings.Profile)
	if err != nil {
		return nil, err
	}
	httpPath, err := profiles.GetHTTPPath(ctx, settings.Profile)
	if err != nil {
		return nil, err
	}

	host := cfg.Host
	if u, err := url.Parse(cfg.Host); err == nil && u.Host != "" {
		host = u.Host
	}

	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(host),
		dbsql.WithPort(443),
		dbsql.WithHTTPPath(httpPath),
		dbsql.WithAccessToken(cfg.Token),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create databricks connector: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("host", host).Str("profile", settings.Profile).Msg("opening databricks source")
	return sql.OpenDB(connector), nil
}

// PostgresFactory opens source.dsn through the pgx stdlib driver.
func PostgresFactory(_ context.Context, settings config.SourceSettings) (*sql.DB, error) {
	if settings.DSN == "" {
		return nil, errs.Configuration("source.dsn must be a postgres connection string")
	}
	return sql.Open("pgx", settings.DSN)
}
