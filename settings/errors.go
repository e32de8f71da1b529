package settings

import "fmt"

// ErrorCode is a stable identifier for a fatal resolution failure,
// surfaced to callers so a UI can present a targeted message instead of
// a raw Go error string.
type ErrorCode string

// Fatal error codes.
const (
	ErrNoProfiles            ErrorCode = "NoProfiles"
	ErrAllProfilesHidden     ErrorCode = "AllProfilesHidden"
	ErrDeserializationFailed ErrorCode = "DeserializationFailed"
	ErrFilesystemFailure     ErrorCode = "FilesystemFailure"
	ErrDefaultsCorrupt       ErrorCode = "DefaultsCorrupt"
)

// SettingsException is the typed fatal error returned by LoadAll. Callers
// are expected to fall back to built-in defaults only upon receiving
// one.
type SettingsException struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *SettingsException) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *SettingsException) Unwrap() error {
	return e.Err
}

func fatal(code ErrorCode, msg string, cause error) *SettingsException {
	return &SettingsException{Code: code, Msg: msg, Err: cause}
}

// WarningCode identifies a non-fatal diagnostic.
type WarningCode string

// Warning codes.
const (
	WarnDuplicateProfile          WarningCode = "DuplicateProfile"
	WarnFailedToWriteToSettings   WarningCode = "FailedToWriteToSettings"
	WarnMissingDefaultProfile     WarningCode = "MissingDefaultProfile"
	WarnUnknownColorScheme        WarningCode = "UnknownColorScheme"
	WarnInvalidBackgroundImage    WarningCode = "InvalidBackgroundImage"
	WarnInvalidIcon               WarningCode = "InvalidIcon"
	WarnAtLeastOneKeybindingIssue WarningCode = "AtLeastOneKeybindingWarning"
	WarnInvalidColorSchemeInCmd   WarningCode = "InvalidColorSchemeInCmd"
	WarnCycleDetected             WarningCode = "CycleDetected"
)

// Warning is a single non-fatal diagnostic produced during resolution.
// Warnings never abort a load; they accumulate and are returned
// alongside the resolved settings.
type Warning struct {
	Code    WarningCode
	Message string
	// ProfileGUID is set when the warning concerns a specific profile;
	// it is the zero GUID for globals-level warnings.
	ProfileGUID GUID
}

func (w Warning) String() string {
	if w.ProfileGUID.IsZero() {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s: %s (profile %s)", w.Code, w.Message, w.ProfileGUID)
}

// DeserializationError reports a JSON parsing failure with enough
// context (key, expected type, offset, line/column) for a caller to
// point the user at the exact problem in their file.
type DeserializationError struct {
	Key      string
	Expected string
	Actual   string
	Offset   int64
	Line     int
	Column   int
	Err      error
}

func (e *DeserializationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("line %d, column %d: key %q: expected %s, got %s", e.Line, e.Column, e.Key, e.Expected, e.Actual)
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
