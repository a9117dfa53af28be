package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mqops/mqmon/internal/domain"
	"github.com/mqops/mqmon/internal/render"
	"github.com/mqops/mqmon/internal/rules"
)

// Config is the root configuration of the monitor. It is loaded once per
// run and read-only afterwards: cycles share it by reference.
type Config struct {
	Servers   []ServerConfig                    `mapstructure:"mq_servers"`
	Collector string                            `mapstructure:"collector"`
	Output    OutputConfig                      `mapstructure:"output"`
	Channels  rules.Ruleset[rules.ChannelRules] `mapstructure:"channels_monitoring"`
	Queues    rules.Ruleset[rules.QueueRules]   `mapstructure:"queues_monitoring"`
	Logger    LoggerConfig                      `mapstructure:"logger"`
	HTTP      HTTPConfig                        `mapstructure:"http"`
}

// ServerConfig describes one monitored MQ host and its queue managers.
type ServerConfig struct {
	Name          string          `mapstructure:"name"`
	Host          string          `mapstructure:"host"`
	Port          int             `mapstructure:"port"`
	QueueManagers []ManagerConfig `mapstructure:"queue_managers"`
}

// ManagerConfig describes one queue manager. Port falls back to the server
// port when unset. The connection fields are consumed by the collector
// layer only.
type ManagerConfig struct {
	Name              string    `mapstructure:"name"`
	Channel           string    `mapstructure:"channel"`
	Port              int       `mapstructure:"port"`
	User              string    `mapstructure:"user"`
	Password          string    `mapstructure:"password"`
	SSL               bool      `mapstructure:"ssl"`
	SSLConfig         SSLConfig `mapstructure:"ssl_config"`
	ChannelsToMonitor []string  `mapstructure:"channels_to_monitor"`
	QueuesToMonitor   []string  `mapstructure:"queues_to_monitor"`
}

type SSLConfig struct {
	CipherSpec    string `mapstructure:"cipher_spec"`
	KeyRepository string `mapstructure:"key_repository"`
}

// OutputConfig selects the rendering pipeline.
type OutputConfig struct {
	Format        string `mapstructure:"format"`
	Colored       bool   `mapstructure:"colored"`
	LogFile       string `mapstructure:"log_file"`
	IncludeSystem bool   `mapstructure:"include_system"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	File   string `mapstructure:"file"`
}

// HTTPConfig configures the serve-mode status API.
type HTTPConfig struct {
	Addr     string        `mapstructure:"addr"`
	Interval time.Duration `mapstructure:"interval"`
}

// ValidationError is fatal: it aborts the run before any telemetry is
// collected.
type ValidationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config section %q: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("config section %q, field %q: %s", e.Section, e.Field, e.Reason)
}

// LoadConfig reads and validates the configuration file, merging in ENV
// overrides (OUTPUT_FORMAT=json overrides output.format). Validation is
// fail-fast: the first missing mandatory section/field or malformed value
// is reported with its location.
func LoadConfig(path string) (*Config, error) {
	// Entity names contain dots (ORDERS.IN), so the default "." key
	// delimiter would split specific-rule keys into nested paths. "::"
	// never appears in MQ object names.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("::", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// viper lowercases keys while MQ object names are upper case by
	// convention; normalize so Resolve sees the names as collected.
	cfg.Channels.Specific = upperKeys(cfg.Channels.Specific)
	cfg.Queues.Specific = upperKeys(cfg.Queues.Specific)

	if err := validate(v, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func upperKeys[T any](m map[string]*T) map[string]*T {
	if len(m) == 0 {
		return m
	}
	out := make(map[string]*T, len(m))
	for k, v := range m {
		out[strings.ToUpper(k)] = v
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("collector", "mock")
	v.SetDefault("output::format", "console")
	v.SetDefault("output::colored", true)
	v.SetDefault("logger::level", "info")
	v.SetDefault("logger::format", "console")
	v.SetDefault("http::addr", ":8080")
	v.SetDefault("http::interval", time.Minute)
}

// Mandatory fields of the global rule blocks. A specific block may be
// partial (it replaces global wholesale and unset thresholds disable their
// checks), the global one may not.
var (
	requiredChannelFields = []string{"required_status", "inactive_warning", "max_connections", "warning_connections"}
	requiredQueueFields   = []string{"max_depth", "warning_depth", "max_depth_percent", "warning_depth_percent", "stuck_queue_warning", "required_consumers"}
)

func validate(v *viper.Viper, cfg *Config) error {
	for _, section := range []string{"mq_servers", "output", "channels_monitoring", "queues_monitoring"} {
		if !v.IsSet(section) {
			return &ValidationError{Section: section, Reason: "missing required section"}
		}
	}

	if len(cfg.Servers) == 0 {
		return &ValidationError{Section: "mq_servers", Reason: "at least one server must be configured"}
	}
	for _, srv := range cfg.Servers {
		if srv.Name == "" {
			return &ValidationError{Section: "mq_servers", Field: "name", Reason: "missing required field"}
		}
		if srv.Host == "" {
			return &ValidationError{Section: "mq_servers", Field: "host", Reason: fmt.Sprintf("missing required field for server %q", srv.Name)}
		}
		if srv.Port <= 0 {
			return &ValidationError{Section: "mq_servers", Field: "port", Reason: fmt.Sprintf("missing or invalid port for server %q", srv.Name)}
		}
		if len(srv.QueueManagers) == 0 {
			return &ValidationError{Section: "mq_servers", Field: "queue_managers", Reason: fmt.Sprintf("no queue managers configured for server %q", srv.Name)}
		}
		for _, qm := range srv.QueueManagers {
			if qm.Name == "" {
				return &ValidationError{Section: "mq_servers", Field: "queue_managers.name", Reason: fmt.Sprintf("missing required field for server %q", srv.Name)}
			}
			if qm.Channel == "" {
				return &ValidationError{Section: "mq_servers", Field: "queue_managers.channel", Reason: fmt.Sprintf("missing required field for queue manager %q", qm.Name)}
			}
		}
	}

	if !render.Known(cfg.Output.Format) {
		return &ValidationError{
			Section: "output",
			Field:   "format",
			Reason:  fmt.Sprintf("invalid output format %q, allowed values are: %s", cfg.Output.Format, strings.Join(render.Formats, ", ")),
		}
	}

	if err := validateGlobalBlock(v, "channels_monitoring", requiredChannelFields); err != nil {
		return err
	}
	if err := validateGlobalBlock(v, "queues_monitoring", requiredQueueFields); err != nil {
		return err
	}

	if err := validateOverrides("channels_monitoring", channelOverrides(cfg.Channels)); err != nil {
		return err
	}
	return validateOverrides("queues_monitoring", queueOverrides(cfg.Queues))
}

func validateGlobalBlock(v *viper.Viper, section string, fields []string) error {
	if !v.IsSet(section + "::global") {
		return &ValidationError{Section: section, Field: "global", Reason: "missing required block"}
	}
	for _, f := range fields {
		if !v.IsSet(section + "::global::" + f) {
			return &ValidationError{Section: section + ".global", Field: f, Reason: "missing required field"}
		}
	}
	return nil
}

// An override must carry both a parseable severity and a message text;
// half-specified overrides are rejected at load rather than surprising the
// operator at render time.
func validateOverrides(section string, tables map[string]map[rules.CheckKey]rules.MessageOverride) error {
	for scope, msgs := range tables {
		for key, o := range msgs {
			if _, err := domain.ParseSeverity(o.Severity); err != nil {
				return &ValidationError{Section: section + "." + scope + ".messages", Field: string(key), Reason: err.Error()}
			}
			if o.Text == "" {
				return &ValidationError{Section: section + "." + scope + ".messages", Field: string(key), Reason: "missing required field 'text'"}
			}
		}
	}
	return nil
}

func channelOverrides(rs rules.Ruleset[rules.ChannelRules]) map[string]map[rules.CheckKey]rules.MessageOverride {
	out := map[string]map[rules.CheckKey]rules.MessageOverride{}
	if rs.Global != nil {
		out["global"] = rs.Global.Messages
	}
	for name, r := range rs.Specific {
		if r != nil {
			out["specific."+name] = r.Messages
		}
	}
	return out
}

func queueOverrides(rs rules.Ruleset[rules.QueueRules]) map[string]map[rules.CheckKey]rules.MessageOverride {
	out := map[string]map[rules.CheckKey]rules.MessageOverride{}
	if rs.Global != nil {
		out["global"] = rs.Global.Messages
	}
	for name, r := range rs.Specific {
		if r != nil {
			out["specific."+name] = r.Messages
		}
	}
	return out
}
