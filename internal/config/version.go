package config

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultClientVersion is reported to Bangumi when the binary was built
// without a release version.
const DefaultClientVersion = "1.3.1"

const userAgentURL = "https://github.com/kierankihn/comic-renamer"

var (
	versionMu     sync.RWMutex
	clientVersion = DefaultClientVersion
)

// SetClientVersion overrides the version used in the default user agent.
// Blank values are ignored.
func SetClientVersion(version string) {
	version = strings.TrimSpace(version)
	if version == "" {
		return
	}
	versionMu.Lock()
	defer versionMu.Unlock()
	clientVersion = version
}

// ClientVersion returns the version used in the default user agent.
func ClientVersion() string {
	versionMu.RLock()
	defer versionMu.RUnlock()
	return clientVersion
}

// UserAgent builds the client identifier Bangumi asks API consumers to send.
func UserAgent(version string) string {
	return fmt.Sprintf("comicrenamer/%s (%s)", version, userAgentURL)
}

// DefaultUserAgent returns the user agent for the current client version.
func DefaultUserAgent() string {
	return UserAgent(ClientVersion())
}
