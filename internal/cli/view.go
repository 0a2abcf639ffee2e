package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/view"
)

// viewCommand creates the view command, which prints the raw memory views a
// foreign reader would receive for one record.
func (c *CLI) viewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file|url> <kind> <index> [field]",
		Short: "Print the memory views of one record",
		Long: `Print the memory views of one record.

Without a field, prints the collection view (base address, length, stride)
and the record. With a field, prints the string view (pointer and length)
and the bytes read back through it. Paths also list their steps.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := graph.ParseKind(args[1])
			if !ok {
				return errors.New(errors.ErrCodeInvalidKind, "unknown record kind %q", args[1])
			}
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid index %q", args[2])
			}

			store, _, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			lease := view.Borrow(store)
			defer lease.Release()

			if len(args) == 4 {
				return printStringView(lease, k, index, args[3])
			}
			return printRecordViews(store, lease, k, index)
		},
	}
	return cmd
}

func printRecordViews(store *graph.Store, lease *view.Lease, k graph.Kind, index int) error {
	coll, err := lease.Collection(k)
	if err != nil {
		return err
	}
	rec, err := store.RecordAt(k, index)
	if err != nil {
		return err
	}

	printInfo("%s collection", k)
	printKeyValue("Base", fmt.Sprintf("%#x", coll.Base))
	printKeyValue("Len", strconv.Itoa(coll.Len))
	printKeyValue("Stride", strconv.FormatUint(uint64(coll.Stride), 10))
	printKeyValue("Epoch", strconv.FormatUint(coll.Epoch, 10))
	printKeyValue("Address", fmt.Sprintf("%#x", coll.Base+uintptr(index)*coll.Stride))
	printNewline()

	data, err := graph.MarshalRecord(rec)
	if err != nil {
		return err
	}
	printInfo("record %d", index)
	printDetail("%s", data)

	for _, field := range view.StringFields(k) {
		sv, err := lease.String(k, index, field)
		if err != nil {
			return err
		}
		printKeyValue(field, fmt.Sprintf("%#x len %d", sv.Ptr, sv.Len))
	}

	if k != graph.KindPath {
		return nil
	}
	steps, err := lease.Steps(index)
	if err != nil {
		return err
	}
	printNewline()
	printInfo("%d steps at %#x, stride %d", steps.Len, steps.Base, steps.Stride)
	for i := range steps.Len {
		step, err := steps.Step(i)
		if err != nil {
			return err
		}
		name, err := lease.StepName(index, i)
		if err != nil {
			return err
		}
		printDetail("%3d  %s%s  name %#x len %d", i, step.Name, graph.Orientation(step.Forward), name.Ptr, name.Len)
	}
	return nil
}

func printStringView(lease *view.Lease, k graph.Kind, index int, field string) error {
	sv, err := lease.String(k, index, field)
	if err != nil {
		return err
	}
	printKeyValue("Ptr", fmt.Sprintf("%#x", sv.Ptr))
	printKeyValue("Len", strconv.Itoa(sv.Len))
	printKeyValue("Epoch", strconv.FormatUint(sv.Epoch, 10))
	printKeyValue("Bytes", StyleHighlight.Render(truncate(sv.String(), 120)))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
