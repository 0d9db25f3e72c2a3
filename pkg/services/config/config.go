package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "CAMPAIGN_ATLAS"

type MetricsSettings struct {
	OutlierThreshold float64 `mapstructure:"outlier_threshold" validate:"gt=0"`
	MinSessions      float64 `mapstructure:"min_sessions"`
	MinRevenue       float64 `mapstructure:"min_revenue"`
}

type ClusteringSettings struct {
	NClusters     int      `mapstructure:"n_clusters" validate:"gte=1"`
	RandomState   int64    `mapstructure:"random_state"`
	NInit         int      `mapstructure:"n_init" validate:"gte=10"`
	MaxIter       int      `mapstructure:"max_iter" validate:"gte=1"`
	Features      []string `mapstructure:"features" validate:"required,min=1,dive,required"`
	SegmentLabels []string `mapstructure:"segment_labels" validate:"required,min=1,dive,required"`
}

type ModelSettings struct {
	Clustering ClusteringSettings `mapstructure:"clustering"`
}

type SourceSettings struct {
	Platform string `mapstructure:"platform" validate:"oneof=duckdb snowflake databricks postgres"`
	Profile  string `mapstructure:"profile"`
	DSN      string `mapstructure:"dsn"`
}

type PathSettings struct {
	ProcessedData string `mapstructure:"processed_data" validate:"required"`
	Reports       string `mapstructure:"reports" validate:"required"`
	Dashboards    string `mapstructure:"dashboards" validate:"required"`
	RunsDB        string `mapstructure:"runs_db" validate:"required"`
}

type ExportSettings struct {
	PowerBI  bool   `mapstructure:"powerbi"`
	Workbook bool   `mapstructure:"workbook"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Prefix string `mapstructure:"s3_prefix"`
	S3Region string `mapstructure:"s3_region"`
}

type ServerSettings struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// Config is loaded once per run and treated as read-only afterwards.
type Config struct {
	Metrics MetricsSettings `mapstructure:"metrics"`
	Model   ModelSettings   `mapstructure:"model"`
	Source  SourceSettings  `mapstructure:"source"`
	Paths   PathSettings    `mapstructure:"paths"`
	Export  ExportSettings  `mapstructure:"export"`
	Server  ServerSettings  `mapstructure:"server"`
}

func DefaultConfig() Config {
	return Config{
		Metrics: MetricsSettings{
			OutlierThreshold: 1.5,
			MinSessions:      0,
			MinRevenue:       0,
		},
		Model: ModelSettings{
			Clustering: ClusteringSettings{
				NClusters:   3,
				RandomState: 42,
				NInit:       10,
				MaxIter:     300,
				Features: []string{
					"sessions", "avg_session_duration", "pages_per_session", "transactions", "revenue",
				},
				SegmentLabels: []string{"High-Value Buyers", "Deal Seekers", "Casual Visitors"},
			},
		},
		Source: SourceSettings{
			Platform: "duckdb",
			DSN:      "campaign-atlas.db",
		},
		Paths: PathSettings{
			ProcessedData: "data/processed",
			Reports:       "outputs/reports",
			Dashboards:    "outputs/dashboards",
			RunsDB:        "campaign-atlas.db",
		},
		Server: ServerSettings{
			Host: "localhost",
			Port: 8085,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("metrics.outlier_threshold", d.Metrics.OutlierThreshold)
	v.SetDefault("metrics.min_sessions", d.Metrics.MinSessions)
	v.SetDefault("metrics.min_revenue", d.Metrics.MinRevenue)
	v.SetDefault("model.clustering.n_clusters", d.Model.Clustering.NClusters)
	v.SetDefault("model.clustering.random_state", d.Model.Clustering.RandomState)
	v.SetDefault("model.clustering.n_init", d.Model.Clustering.NInit)
	v.SetDefault("model.clustering.max_iter", d.Model.Clustering.MaxIter)
	v.SetDefault("model.clustering.features", d.Model.Clustering.Features)
	v.SetDefault("model.clustering.segment_labels", d.Model.Clustering.SegmentLabels)
	v.SetDefault("source.platform", d.Source.Platform)
	v.SetDefault("source.profile", d.Source.Profile)
	v.SetDefault("source.dsn", d.Source.DSN)
	v.SetDefault("paths.processed_data", d.Paths.ProcessedData)
	v.SetDefault("paths.reports", d.Paths.Reports)
	v.SetDefault("paths.dashboards", d.Paths.Dashboards)
	v.SetDefault("paths.runs_db", d.Paths.RunsDB)
	v.SetDefault("export.powerbi", d.Export.PowerBI)
	v.SetDefault("export.workbook", d.Export.Workbook)
	v.SetDefault("export.s3_bucket", d.Export.S3Bucket)
	v.SetDefault("export.s3_prefix", d.Export.S3Prefix)
	v.SetDefault("export.s3_region", d.Export.S3Region)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
}

// LoadConfig reads the YAML file at path, applies CAMPAIGN_ATLAS_* environment
// overrides on top of the defaults and validates the result. An empty path
// yields the defaults plus environment overrides.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errs.Wrap(err, errs.CodeConfiguration, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, errs.CodeConfiguration, "failed to parse config")
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cross-field rules that struct
// tags cannot express.
func Validate(cfg Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
	})

	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", trimNamespace(fe.Namespace()), fe.Tag()))
			}
			return errs.Configuration("invalid config: %s", strings.Join(msgs, "; "))
		}
		return errs.Wrap(err, errs.CodeConfiguration, "invalid config")
	}

	cl := cfg.Model.Clustering
	if cl.NClusters != len(cl.SegmentLabels) {
		return errs.Configuration(
			"model.clustering.n_clusters is %d but %d segment labels are configured", cl.NClusters, len(cl.SegmentLabels))
	}
	seen := make(map[string]struct{}, len(cl.SegmentLabels))
	for _, label := range cl.SegmentLabels {
		if _, dup := seen[label]; dup {
			return errs.Configuration("model.clustering.segment_labels: duplicate label %q", label)
		}
		seen[label] = struct{}{}
	}
	return nil
}

func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
