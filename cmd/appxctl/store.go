package main

import (
	"fmt"

	"github.com/joshuapare/appxkit/pkg/reg"
	"github.com/joshuapare/appxkit/pkg/repository"
)

// openRepository returns the repository selected by --hive and --mount and
// a func releasing it. Without --hive it reads the native registry.
func openRepository() (*repository.Repository, func(), error) {
	log := stderrLogger()
	if hivePath == "" {
		printVerbose("Reading the native registry\n")
		return repository.New(reg.Native(), repository.WithLogger(log)), func() {}, nil
	}

	root, err := reg.ParseRoot(mountName)
	if err != nil {
		return nil, nil, fmt.Errorf("--mount: %w", err)
	}
	printVerbose("Opening hive: %s (mounted at %s)\n", hivePath, root)
	store, err := reg.OpenHive(hivePath, root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open hive: %w", err)
	}
	repo := repository.New(store,
		repository.WithLogger(log),
		repository.WithRoot(root),
	)
	return repo, func() { _ = store.Close() }, nil
}
