package logger

// NoopLogger discards everything. Used as the default in unit tests so
// test output isn't drowned in proxy log lines.
type NoopLogger struct{}

func (NoopLogger) Log(string)             {}
func (NoopLogger) Logf(string, ...any)    {}
func (NoopLogger) Warn(string)            {}
func (NoopLogger) Warnf(string, ...any)   {}
func (NoopLogger) Debug(string)           {}
func (NoopLogger) Debugf(string, ...any)  {}
func (NoopLogger) Error(string)           {}
func (NoopLogger) Errorf(string, ...any)  {}
func (NoopLogger) Fatal(string)           {}
func (NoopLogger) Fatalf(string, ...any)  {}
