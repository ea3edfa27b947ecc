package sandbox

import (
	log "github.com/sirupsen/logrus"
)

// Debugf, Infof, Logf and Errorf mirror the level-tagged, subject-first
// logging calls used throughout the backend this package is adapted from:
// every call names the instance (or other subject) it concerns first, then
// a printf-style message. Centralizing them here means call sites never
// touch logrus.Fields directly.

// Debugf logs at debug level, tagged with subject.
func Debugf(subject interface{}, format string, args ...interface{}) {
	log.WithField("instance", subject).Debugf(format, args...)
}

// Infof logs at info level, tagged with subject.
func Infof(subject interface{}, format string, args ...interface{}) {
	log.WithField("instance", subject).Infof(format, args...)
}

// Logf is an alias for Infof, matching the backend convention of a plain
// "always worth printing" level distinct from Debugf's verbose trace.
func Logf(subject interface{}, format string, args ...interface{}) {
	log.WithField("instance", subject).Infof(format, args...)
}

// Errorf logs at error level, tagged with subject.
func Errorf(subject interface{}, format string, args ...interface{}) {
	log.WithField("instance", subject).Errorf(format, args...)
}
