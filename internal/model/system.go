package model

// VersionInfo holds application and schema version information.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	DBVersion  int64  `json:"dbVersion"`
}
