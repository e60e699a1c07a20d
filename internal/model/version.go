package model

// Version is the release version, overridden at build time with
// -ldflags "-X missviz/internal/model.Version=...".
var Version = "0.3.1"
