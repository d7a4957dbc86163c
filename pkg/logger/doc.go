// Package logger provides the structured logging interface used across igoauth.
//
// It wraps zerolog with a small API:
//   - leveled logging (Debug, Info, Warn, Error, Fatal)
//   - structured fields via WithField/WithFields and the *WithFields methods
//   - colored console output on stderr, optionally mirrored to a file
//   - a process-wide logger via Initialize/GetLogger
//   - NewNopLogger and NewTestLogger for tests
//
// Basic usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.GetLogger().WithField("account", "default").Info("session loaded")
//
// Access tokens should go through Mask before they reach a log line.
package logger
