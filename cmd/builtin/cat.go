package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/ossvfs/cmd"
	"github.com/mwantia/ossvfs/data"
)

type CatCommand struct{}

func (c *CatCommand) Name() string {
	return "cat"
}

func (c *CatCommand) Description() string {
	return "Print the content of files"
}

func (c *CatCommand) Usage() string {
	return "cat [--offset n] [--length n] path..."
}

func (c *CatCommand) Execute(ctx context.Context, api cmd.API, args []string, w io.Writer) (int, error) {
	flags := cmd.NewFlagSet(c)
	offset := flags.Int64("offset", 0, "start reading at offset")
	length := flags.Int64("length", -1, "read at most length bytes")

	paths, err := cmd.Parse(c, flags, args, 1)
	if err != nil {
		return 2, err
	}

	var errs data.Errors
	for _, path := range paths {
		errs.Add(c.cat(ctx, api, path, *offset, *length, w))
	}

	if errs.Len() > 0 {
		return 1, errs.Errors()
	}
	return 0, nil
}

func (c *CatCommand) cat(ctx context.Context, api cmd.API, path string, offset, length int64, w io.Writer) error {
	f, err := api.Open(ctx, path, "rb")
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	var r io.Reader = f
	if length >= 0 {
		r = io.LimitReader(f, length)
	}

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return nil
}
