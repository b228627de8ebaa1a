// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	versionKey  = "version"
	httpHostKey = "http-host"
	httpPortKey = "http-port"
	dbDirKey    = "db-dir"
	genesisKey  = "genesis"
)

// Config for the custodyvm daemon.
type Config struct {
	Version  bool
	HTTPHost string
	HTTPPort uint16

	// DBDir is the leveldb directory. Empty means an in-memory database.
	DBDir string

	// Genesis is the hex-encoded genesis, as produced by the static API.
	// Empty means an empty ledger.
	Genesis string
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("custodyvm", flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quits")
	fs.String(httpHostKey, "127.0.0.1", "Host of the API server")
	fs.Uint(httpPortKey, 9750, "Port of the API server")
	fs.String(dbDirKey, "", "Directory for the database; empty runs in memory")
	fs.String(genesisKey, "", "Hex-encoded genesis allocations")

	return fs
}

// getViper returns the viper environment for the daemon
func getViper() (*viper.Viper, error) {
	v := viper.New()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	return v, nil
}

func getConfig() (Config, error) {
	v, err := getViper()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Version:  v.GetBool(versionKey),
		HTTPHost: v.GetString(httpHostKey),
		HTTPPort: uint16(v.GetUint(httpPortKey)),
		DBDir:    v.GetString(dbDirKey),
		Genesis:  v.GetString(genesisKey),
	}, nil
}
