package main

import "fmt"

// initDB forces a first load, which bootstraps storage and seeds the
// snapshot when none exists yet.
func (cli *commandLine) initDB() error {
	snap, err := cli.store.Load()
	if err != nil {
		return err
	}
	fmt.Printf("snapshot ready: %d students, %d techniques, %d academies\n",
		len(snap.Students), len(snap.Techniques), len(snap.Academies))
	return nil
}
