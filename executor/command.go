package executor

import (
	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/structures"
)

// BuildArgs returns the program and argv for one run. The JSON argument travels as a single
// argv element, so no shell ever sees it.
//
//	cargo run -- --db-path ./chain.sqlite --data {...} --output-file /tmp/sputnik-<uuid>
//	cargo run -- --db-path ./chain.sqlite --data {...} --write
func BuildArgs(command []string, dbPath string, inv structures.EngineInvocation) (string, []string) {

	args := make([]string, 0, len(command)+6)
	args = append(args, command[1:]...)
	args = append(args, constants.FlagDbPath, dbPath, constants.FlagData, string(inv.Argument))

	if inv.IsWrite() {
		args = append(args, constants.FlagWrite)
	} else if inv.OutputPath != "" {
		args = append(args, constants.FlagOutputFile, inv.OutputPath)
	}

	return command[0], args

}
