package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, rosterPath string) *Slack {
	return &Slack{
		botToken:   botToken,
		channelID:  channelID,
		rosterPath: rosterPath,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewAppConfigForTest creates an AppConfig bound to a file path
func NewAppConfigForTest(path string) *AppConfig {
	return &AppConfig{path: path}
}
