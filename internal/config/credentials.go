package config

import (
	"fmt"

	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// ServerTransportCredentials resolves the named server credentials
// profile. The empty string resolves to insecure, which is the only
// profile this repository ships; any other profile name is an error.
func (c *Config) ServerTransportCredentials() (credentials.TransportCredentials, error) {
	return resolveCredentials(c.ServerCredentials)
}

// NodeTransportCredentials resolves the named credentials profile used
// for outgoing connections to node managers.
func (c *Config) NodeTransportCredentials() (credentials.TransportCredentials, error) {
	return resolveCredentials(c.NodeCredentials)
}

func resolveCredentials(profile string) (credentials.TransportCredentials, error) {
	switch profile {
	case "", "insecure":
		return insecure.NewCredentials(), nil
	default:
		return nil, fmt.Errorf("unknown credentials profile %q", profile)
	}
}
