// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/leveldb"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/soteria-labs/custodyvm/custodyvm"
)

func main() {
	config, err := getConfig()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print name and version and exit
	if config.Version {
		fmt.Printf("%s@%s\n", custodyvm.Name, custodyvm.Version)
		os.Exit(0)
	}

	if err := run(config); err != nil {
		fmt.Printf("daemon returned an error: %s\n", err)
		os.Exit(1)
	}
}

func run(config Config) error {
	var (
		db  database.Database
		err error
	)
	if config.DBDir == "" {
		db = memdb.New()
	} else {
		db, err = leveldb.New(config.DBDir, nil, logging.NoLog{}, "custodyvm", prometheus.NewRegistry())
		if err != nil {
			return fmt.Errorf("couldn't open database at %s: %w", config.DBDir, err)
		}
	}

	var genesisBytes []byte
	if config.Genesis != "" {
		genesisBytes, err = formatting.Decode(formatting.Hex, config.Genesis)
		if err != nil {
			return fmt.Errorf("couldn't decode genesis: %w", err)
		}
	}

	vm := &custodyvm.VM{}
	if err := vm.Initialize(db, genesisBytes); err != nil {
		return fmt.Errorf("couldn't initialize VM: %w", err)
	}
	defer func() {
		if err := vm.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	handler, err := vm.CreateHandler()
	if err != nil {
		return fmt.Errorf("couldn't create handler: %w", err)
	}
	staticHandler, err := custodyvm.StaticHandler()
	if err != nil {
		return fmt.Errorf("couldn't create static handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ext/custody", handler)
	mux.Handle("/ext/custody/static", staticHandler)

	addr := fmt.Sprintf("%s:%d", config.HTTPHost, config.HTTPPort)
	log.Info("serving custody API", "address", addr)
	return http.ListenAndServe(addr, mux)
}
