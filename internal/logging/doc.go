// Package logging provides opt-in file-based logging with rotation for
// fontdoctor. When the --debug flag is set, structured JSON logs are written
// to ~/.fontdoctor/logs/ for troubleshooting failed probes and parse errors.
//
// By default (without --debug), logging is minimal and goes to stderr only.
package logging
