package jsontl

// Name is the canonical tool name, used in CLI output and user agents.
const Name = "jsontl"

// Version is the semantic version. Release builds override the build
// metadata with ldflags:
//
//	go build -ldflags "-X github.com/translatekit/jsontl.Version=1.0.0 \
//	  -X github.com/translatekit/jsontl.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.1.0"
	GitCommit = ""
	BuildDate = ""
)

// FullVersion returns the version, with the commit appended when known.
func FullVersion() string {
	if GitCommit == "" {
		return Version
	}
	return Version + "+" + GitCommit
}

// UserAgent identifies this tool on outbound HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
