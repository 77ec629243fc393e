// Package utils provides small helpers shared across apibot packages that do
// not warrant a package of their own.
package utils

// Build stamp, overridden at link time:
//
//	go build -ldflags "-X github.com/papercomputeco/apibot/pkg/utils.Version=v0.3.0" ./cli/apibot
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
