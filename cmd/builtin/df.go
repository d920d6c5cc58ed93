package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/ossvfs/cmd"
)

type DfCommand struct{}

func (df *DfCommand) Name() string {
	return "df"
}

func (df *DfCommand) Description() string {
	return "Show the memory available for cached content"
}

func (df *DfCommand) Usage() string {
	return "df [path]"
}

func (df *DfCommand) Execute(ctx context.Context, api cmd.API, args []string, w io.Writer) (int, error) {
	paths, err := cmd.Parse(df, cmd.NewFlagSet(df), args, 0)
	if err != nil {
		return 2, err
	}

	path := api.Prefix()
	if len(paths) > 0 {
		path = paths[0]
	}

	free, err := api.FreeSpace(path)
	if err != nil {
		return 1, err
	}

	fmt.Fprintf(w, "%s\t%s available\n", path, humanize.IBytes(uint64(free)))
	return 0, nil
}
