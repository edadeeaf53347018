package config

func boolPtr(b bool) *bool { return &b }

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:            "http://127.0.0.1:9000",
			EventsPath:     "/events",
			RequestTimeout: 10,
		},
		UI: UIConfig{
			Theme:              "default",
			ShowLiveInConsole:  boolPtr(true),
			ConsoleScrollSpeed: 5,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Mock: MockConfig{
			Host:           "127.0.0.1",
			Port:           9000,
			Steps:          20,
			StepIntervalMS: 250,
			Version:        "mock-0.1",
		},
		Update: UpdateConfig{
			Repo: "bluesky/qmon",
		},
	}
}
