package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/ossvfs/cmd"
)

type LsCommand struct{}

func (ls *LsCommand) Name() string {
	return "ls"
}

func (ls *LsCommand) Description() string {
	return "List the entries of a directory"
}

func (ls *LsCommand) Usage() string {
	return "ls [-l] [-H] [-n max] path"
}

func (ls *LsCommand) Execute(ctx context.Context, api cmd.API, args []string, w io.Writer) (int, error) {
	flags := cmd.NewFlagSet(ls)
	long := flags.BoolP("long", "l", false, "use a long listing format")
	human := flags.BoolP("human", "H", false, "print sizes in human readable form")
	max := flags.IntP("max", "n", 0, "list at most max entries")

	paths, err := cmd.Parse(ls, flags, args, 1)
	if err != nil {
		return 2, err
	}

	path := paths[0]
	if err := api.Load(ctx, path); err != nil {
		return 1, err
	}

	stats, err := api.ReadDirStat(ctx, path, *max)
	if err != nil {
		return 1, err
	}

	for _, stat := range stats {
		if !*long {
			fmt.Fprintln(w, stat.Name())
			continue
		}

		size := fmt.Sprintf("%d", stat.Size)
		if *human {
			size = humanize.IBytes(uint64(stat.Size))
		}
		modified := "-"
		if !stat.ModifyTime.IsZero() {
			modified = stat.ModifyTime.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s %10s %16s %s\n", stat.Mode, size, modified, stat.Name())
	}

	return 0, nil
}
