package main

import "comicrenamer/internal/config"

// version is stamped at release time:
//
//	go build -ldflags "-X main.version=1.4.0" ./cmd/comicrenamer
var version string

func clientVersion() string {
	config.SetClientVersion(version)
	return config.ClientVersion()
}
