// Package buildinfo holds version information injected at build time:
//
//	go build -ldflags "-X github.com/matzehuels/topicmaps/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/topicmaps/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/topicmaps/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/topicmaps
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// UserAgent identifies this build in outgoing requests.
func UserAgent() string {
	return "topicmaps/" + Version
}

// Template returns the --version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
