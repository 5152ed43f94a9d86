// File: cmd/version.go
package cmd

// Version is set at build time:
// go build -ldflags "-X github.com/pagelens/pagelens/cmd.Version=1.2.3"
var Version = "0.1.0"
