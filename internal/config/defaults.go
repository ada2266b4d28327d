package config

const (
	defaultConfigPath  = "~/.config/mdeval/config.toml"
	projectConfigName  = "mdeval.toml"
	defaultHistoryPath = "~/.local/share/mdeval/history.db"
	defaultCondition   = "ALL"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	// FormatText is the md-eval style report.
	FormatText = "text"
	// FormatTable is the per-file table followed by the overall DER.
	FormatTable = "table"
	// FormatJSON is the machine readable report document.
	FormatJSON = "json"

	historyPathEnv = "MDEVAL_HISTORY_PATH"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scoring: Scoring{
			Collar:        0,
			IgnoreOverlap: false,
			Workers:       0,
		},
		Report: Report{
			Format:    FormatText,
			Condition: defaultCondition,
		},
		History: History{
			Enabled: false,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
