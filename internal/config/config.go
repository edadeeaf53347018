package config

type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	UI     UIConfig     `yaml:"ui" toml:"ui"`
	Export ExportConfig `yaml:"export" toml:"export"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	Mock   MockConfig   `yaml:"mock" toml:"mock"`
	Update UpdateConfig `yaml:"update" toml:"update"`
}

type ServerConfig struct {
	URL            string `yaml:"url" toml:"url"`
	EventsPath     string `yaml:"events_path" toml:"events_path"`
	RequestTimeout int    `yaml:"request_timeout" toml:"request_timeout"`
}

type UIConfig struct {
	Theme              string `yaml:"theme" toml:"theme"`
	ShowLiveInConsole  *bool  `yaml:"show_live_in_console" toml:"show_live_in_console"`
	ConsoleScrollSpeed int    `yaml:"console_scroll_speed" toml:"console_scroll_speed"`
}

type ExportConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

type LogConfig struct {
	File string `yaml:"file" toml:"file"`
}

// MockConfig drives the bundled mock queue server.
type MockConfig struct {
	Host           string `yaml:"host" toml:"host"`
	Port           int    `yaml:"port" toml:"port"`
	Steps          int    `yaml:"steps" toml:"steps"`
	StepIntervalMS int    `yaml:"step_interval_ms" toml:"step_interval_ms"`
	Version        string `yaml:"version" toml:"version"`
}

type UpdateConfig struct {
	Repo string `yaml:"repo" toml:"repo"`
}
