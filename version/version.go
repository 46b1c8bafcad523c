package version

// Version is set at release time via -ldflags "-X ...version.Version=v1.2.3".
var Version = "dev"
