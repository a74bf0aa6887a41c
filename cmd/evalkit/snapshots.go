package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/randalmurphal/evalkit/pkg/evalkit"
)

func listSnapshots(w io.Writer, engine *evalkit.DefaultEngine) error {
	infos, err := engine.Snapshots()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "no snapshots")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREVISION\tSIZE\tSAVED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			info.Name, info.Revision, humanize.Bytes(uint64(info.Size)), humanize.Time(info.Timestamp))
	}
	return tw.Flush()
}
