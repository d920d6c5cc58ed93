// Package builtin contains the commands shipped with the ossvfs CLI.
package builtin

import "github.com/mwantia/ossvfs/cmd"

// Register adds all builtin commands to m.
func Register(m *cmd.Manager) error {
	for _, c := range []cmd.Command{
		&LsCommand{},
		&StatCommand{},
		&CatCommand{},
		&DfCommand{},
	} {
		if err := m.Register(c); err != nil {
			return err
		}
	}
	return nil
}
