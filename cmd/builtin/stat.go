package builtin

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/ossvfs/cmd"
)

type StatCommand struct{}

func (st *StatCommand) Name() string {
	return "stat"
}

func (st *StatCommand) Description() string {
	return "Display file or directory status"
}

func (st *StatCommand) Usage() string {
	return "stat path"
}

func (st *StatCommand) Execute(ctx context.Context, api cmd.API, args []string, w io.Writer) (int, error) {
	paths, err := cmd.Parse(st, cmd.NewFlagSet(st), args, 1)
	if err != nil {
		return 2, err
	}

	path := paths[0]
	if err := api.Load(ctx, path); err != nil {
		return 1, err
	}

	stat, err := api.Stat(ctx, path)
	if err != nil {
		return 1, err
	}

	kind := "regular file"
	if stat.IsDir() {
		kind = "directory"
	}

	fmt.Fprintf(w, "  File: %s\n", stat.Path)
	fmt.Fprintf(w, "  Type: %s (%s)\n", kind, stat.ContentType())
	fmt.Fprintf(w, "  Size: %d (%s)\n", stat.Size, humanize.IBytes(uint64(stat.Size)))
	fmt.Fprintf(w, "  Mode: %s\n", stat.Mode)
	if !stat.ModifyTime.IsZero() {
		fmt.Fprintf(w, "Modify: %s (%s)\n", stat.ModifyTime.Format(time.RFC3339), humanize.Time(stat.ModifyTime))
	}

	return 0, nil
}
