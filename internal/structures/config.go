package structures

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type ApiConfig struct {
	BaseURL      string `yaml:"baseUrl" mapstructure:"baseUrl" validate:"required|fullUrl"`
	RetryMax     int    `yaml:"retryMax" mapstructure:"retryMax" validate:"int|min:0|max:10"`
	RetryWaitMin int    `yaml:"retryWaitMin" mapstructure:"retryWaitMin" validate:"int|min:0"`
	RetryWaitMax int    `yaml:"retryWaitMax" mapstructure:"retryWaitMax" validate:"int|min:0"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend" mapstructure:"backend" validate:"required|in:file,sqlite,keyring"`
	Dir        string `yaml:"dir" mapstructure:"dir" validate:"required|unixPath"`
	SqlitePath string `yaml:"sqlitePath" mapstructure:"sqlitePath"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Service    string `yaml:"service" mapstructure:"service"`
}

type SessionConfig struct {
	// Backend overrides Storage.Backend for the token pair only.
	Backend string `yaml:"backend" mapstructure:"backend" validate:"in:file,sqlite,keyring"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode       uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir        string `yaml:"dir" mapstructure:"dir" validate:"required|unixPath"`
	MaxSizeMB  int    `yaml:"maxSizeMb" mapstructure:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups" mapstructure:"maxBackups"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Size    int  `yaml:"size" mapstructure:"size"`
	TTL     int  `yaml:"ttl" mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

type Config struct {
	AppName string
	Debug   bool
	Path    string
	Api     ApiConfig     `yaml:"api" mapstructure:"api"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Logger  LoggerConfig  `yaml:"logger" mapstructure:"logger"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}
