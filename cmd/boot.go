package cmd

import (
	"vkernel/kernel"
	"vkernel/userland"
	"vkernel/vfs"
)

// bootKernel builds a kernel from the global flags with the sample userland
// registered.
func bootKernel() (*kernel.Kernel, error) {
	var store *vfs.Store
	if globalPersist {
		if globalStateDir != "" {
			store = vfs.NewStore(globalStateDir)
		} else {
			store = vfs.DefaultStore(globalID)
		}
	}

	k := kernel.New(kernel.Options{
		TickMS: globalTickMS,
		ID:     globalID,
		Store:  store,
	})
	if err := userland.RegisterAll(k); err != nil {
		return nil, err
	}
	return k, nil
}

// bootDemo boots a kernel, starts init, and advances it a bounded number of
// ticks so the snapshot commands have something to show.
func bootDemo(ticks int) (*kernel.Kernel, error) {
	k, err := bootKernel()
	if err != nil {
		return nil, err
	}
	if _, err := k.SpawnNamed("init", kernel.SpawnOptions{Priority: 3}); err != nil {
		return nil, err
	}
	for i := 0; i < ticks; i++ {
		k.Tick()
		k.ReapTerminated()
	}
	return k, nil
}
